// Command ppgmon streams raw PPG samples from a serial port and prints
// live heart-rate and SpO2 readings.
//
// The sensor is expected to emit one sample pair per line as decimal ADC
// counts, red first:
//
//	51234,79876
//
// Usage:
//
//	ppgmon -port /dev/ttyUSB0
//	ppgmon -port COM3 -baud 230400 -method frequency-domain
//	ppgmon -port /dev/ttyACM0 -rate 50 -every 50
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.bug.st/serial"

	"github.com/cwbudde/algo-ppg/ppg"
)

func main() {
	port := flag.String("port", "", "serial port device (e.g. /dev/ttyUSB0)")
	baud := flag.Int("baud", 115200, "serial baud rate")
	method := flag.String("method", "time-domain", "estimation method: time-domain or frequency-domain")
	rate := flag.Float64("rate", 100, "sensor sample rate in Hz")
	every := flag.Int("every", 100, "print a reading every N samples")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ppgmon -port <device> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Reads \"red,ir\" ADC sample pairs line by line from a serial port\n")
		fmt.Fprintf(os.Stderr, "and prints live heart-rate and SpO2 readings.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("ppgmon: ")

	if *port == "" {
		flag.Usage()
		os.Exit(2)
	}

	m, err := methodFromName(*method)
	if err != nil {
		log.Fatal(err)
	}

	est, err := ppg.New(m, ppg.WithSampleRate(*rate))
	if err != nil {
		log.Fatal(err)
	}

	if err := monitor(*port, *baud, est, *every); err != nil {
		log.Fatal(err)
	}
}

func methodFromName(name string) (ppg.Method, error) {
	switch name {
	case ppg.MethodTimeDomain.String():
		return ppg.MethodTimeDomain, nil
	case ppg.MethodFrequencyDomain.String():
		return ppg.MethodFrequencyDomain, nil
	}

	return 0, fmt.Errorf("unknown method %q", name)
}

func monitor(device string, baud int, est ppg.Estimator, every int) error {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return fmt.Errorf("open %s: %w", device, err)
	}
	defer port.Close()

	log.Printf("listening on %s at %d baud", device, baud)

	var samples, malformed int

	scan := bufio.NewScanner(port)
	for scan.Scan() {
		red, ir, ok := parsePair(scan.Text())
		if !ok {
			malformed++
			if malformed%100 == 1 {
				log.Printf("skipping malformed line %q", scan.Text())
			}
			continue
		}

		est.Process(red, ir)
		samples++

		if samples%every == 0 {
			printReading(est, samples)
		}
	}

	return scan.Err()
}

// parsePair parses a "red,ir" line of decimal ADC counts. Lines that do not
// match (boot banners, debug prints) are reported as not ok.
func parsePair(line string) (red, ir uint32, ok bool) {
	first, second, found := strings.Cut(strings.TrimSpace(line), ",")
	if !found {
		return 0, 0, false
	}

	r, err := strconv.ParseUint(strings.TrimSpace(first), 10, 32)
	if err != nil {
		return 0, 0, false
	}

	i, err := strconv.ParseUint(strings.TrimSpace(second), 10, 32)
	if err != nil {
		return 0, 0, false
	}

	return uint32(r), uint32(i), true
}

func printReading(est ppg.Estimator, samples int) {
	hr := "--"
	if est.HeartRateValid() {
		hr = fmt.Sprintf("%.1f bpm", est.HeartRate())
	}

	spo2 := "--"
	if est.SpO2Valid() {
		spo2 = fmt.Sprintf("%.1f%%", est.SpO2())
	}

	if td, isTD := est.(*ppg.TimeDomain); isTD {
		log.Printf("n=%d  HR %s  SpO2 %s  quality %s", samples, hr, spo2, td.SignalQuality())
		return
	}

	log.Printf("n=%d  HR %s  SpO2 %s", samples, hr, spo2)
}
