// Command ppgplot runs both estimation methods over a recorded PPG capture
// and renders an HTML report: heart-rate and SpO2 trends for each method
// side by side, plus the final IR periodicity spectrum.
//
// The capture is a CSV file with one sample pair per row, red first:
//
//	51234,79876
//	51260,79901
//
// Usage:
//
//	ppgplot -in capture.csv -out report.html
//	ppgplot -in capture.csv -rate 50 -stride 10
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cwbudde/algo-ppg/ppg"
)

func main() {
	in := flag.String("in", "", "input CSV capture (red,ir per row)")
	out := flag.String("out", "report.html", "output HTML report")
	rate := flag.Float64("rate", 100, "capture sample rate in Hz")
	stride := flag.Int("stride", 25, "record a trend point every N samples")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ppgplot -in <capture.csv> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs both estimation methods over a recorded capture and writes\n")
		fmt.Fprintf(os.Stderr, "an HTML report with heart-rate, SpO2, and spectrum charts.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("ppgplot: ")

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	red, ir, err := readCapture(*in)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("read %d samples from %s", len(red), *in)

	report, err := analyze(red, ir, *rate, *stride)
	if err != nil {
		log.Fatal(err)
	}

	if err := render(report, *out); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *out)
}

func readCapture(path string) (red, ir []uint32, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	red = make([]uint32, 0, len(records))
	ir = make([]uint32, 0, len(records))
	for i, rec := range records {
		rv, err := strconv.ParseUint(strings.TrimSpace(rec[0]), 10, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		iv, err := strconv.ParseUint(strings.TrimSpace(rec[1]), 10, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}

		red = append(red, uint32(rv))
		ir = append(ir, uint32(iv))
	}

	return red, ir, nil
}

// trend is one per-method reading series sampled every stride samples.
// Invalid readings are recorded as gaps so the charts do not draw zeros.
type trend struct {
	times []string
	td    []opts.LineData
	fd    []opts.LineData
}

func (tr *trend) add(sec float64, tdVal float64, tdOK bool, fdVal float64, fdOK bool) {
	tr.times = append(tr.times, fmt.Sprintf("%.1f", sec))
	tr.td = append(tr.td, point(tdVal, tdOK))
	tr.fd = append(tr.fd, point(fdVal, fdOK))
}

func point(v float64, ok bool) opts.LineData {
	if !ok {
		return opts.LineData{Value: nil}
	}
	return opts.LineData{Value: v}
}

type report struct {
	hr       trend
	spo2     trend
	waveIdx  []string
	waveMag  []opts.LineData
	specBPM  []string
	specMag  []opts.LineData
	peakBPM  float64
	nSamples int
}

func analyze(red, ir []uint32, rate float64, stride int) (*report, error) {
	cmp, err := ppg.NewComparison(ppg.WithSampleRate(rate))
	if err != nil {
		return nil, err
	}
	if stride < 1 {
		stride = 1
	}

	rep := &report{nSamples: len(red)}

	td := cmp.TimeDomain()
	fd := cmp.FrequencyDomain()

	for i := range red {
		cmp.Process(red[i], ir[i])

		if (i+1)%stride != 0 {
			continue
		}
		sec := float64(i+1) / rate

		rep.hr.add(sec,
			td.HeartRate(), td.HeartRateValid(),
			fd.HeartRate(), fd.HeartRateValid())
		rep.spo2.add(sec,
			td.SpO2(), td.SpO2Valid(),
			fd.SpO2(), fd.SpO2Valid())
	}

	for i, v := range td.Waveform() {
		rep.waveIdx = append(rep.waveIdx, strconv.Itoa(i))
		rep.waveMag = append(rep.waveMag, opts.LineData{Value: v})
	}

	cfg := ppg.DefaultConfig()
	for i, mag := range fd.Spectrum(ppg.ChannelIR) {
		period := cfg.MinPeriod + i
		rep.specBPM = append(rep.specBPM, fmt.Sprintf("%.0f", rate*60/float64(period)))
		rep.specMag = append(rep.specMag, opts.LineData{Value: mag})
	}
	if p := fd.PeakPeriod(); p > 0 {
		rep.peakBPM = rate * 60 / float64(p)
	}

	return rep, nil
}

func render(rep *report, path string) error {
	hr := trendChart("Heart Rate", "bpm", rep.hr)
	spo2 := trendChart("SpO2", "%", rep.spo2)

	wave := charts.NewLine()
	wave.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Filtered IR Waveform",
			Subtitle: "bandpassed analysis window at end of capture",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "sample"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ADC counts"}),
	)
	wave.SetXAxis(rep.waveIdx).
		AddSeries("IR", rep.waveMag)

	spec := charts.NewLine()
	spec.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "IR Periodicity Spectrum",
			Subtitle: fmt.Sprintf("final analysis window, peak %.1f bpm", rep.peakBPM),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "bpm"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "magnitude"}),
	)
	spec.SetXAxis(rep.specBPM).
		AddSeries("IR", rep.specMag)

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("PPG report (%d samples)", rep.nSamples)
	page.AddCharts(wave, hr, spo2, spec)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return page.Render(f)
}

func trendChart(title, unit string, tr trend) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "s"}),
		charts.WithYAxisOpts(opts.YAxis{Name: unit}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(tr.times).
		AddSeries("time domain", tr.td).
		AddSeries("frequency domain", tr.fd,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	return line
}
