package ppg_test

import (
	"fmt"

	"github.com/cwbudde/algo-ppg/ppg"
	"github.com/cwbudde/algo-ppg/ppg/ppgtest"
)

func ExampleNew() {
	est, err := ppg.New(ppg.MethodTimeDomain, ppg.WithHRWindow(400))
	if err != nil {
		panic(err)
	}

	params := ppgtest.DefaultParams() // 75 bpm, 98% SpO2
	params.NoiseLevel = 0

	red, ir := ppgtest.Generate(params, 4000)
	for i := range red {
		est.Process(red[i], ir[i])
	}

	if est.HeartRateValid() && est.SpO2Valid() {
		fmt.Printf("%.0f bpm, SpO2 %.0f%%\n", est.HeartRate(), est.SpO2())
	}
	// Output: 75 bpm, SpO2 98%
}

func ExampleNewComparison() {
	cmp, err := ppg.NewComparison()
	if err != nil {
		panic(err)
	}

	red, ir := ppgtest.Generate(ppgtest.DefaultParams(), 2000)
	for i := range red {
		cmp.Process(red[i], ir[i])
	}

	_ = cmp.TimeDomain().HeartRate()
	_ = cmp.FrequencyDomain().HeartRate()
}
