package ppgtest

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ppg/ppg"
)

func TestRFromSpO2RoundTrips(t *testing.T) {
	cal := ppg.DefaultCalibration()

	for _, spo2 := range []float64{99, 98, 95, 90, 85, 80} {
		r := RFromSpO2(spo2, cal)
		back := cal.Evaluate(r)

		if math.Abs(back-spo2) > 0.01 {
			t.Errorf("spo2 %v -> R %v -> %v", spo2, r, back)
		}
	}
}

func TestRFromSpO2Clamps(t *testing.T) {
	cal := ppg.DefaultCalibration()

	if r := RFromSpO2(200, cal); r < 0.1 || r > 2 {
		t.Fatalf("R = %v out of clamp range", r)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	p := DefaultParams()

	red1, ir1 := Generate(p, 500)
	red2, ir2 := Generate(p, 500)

	for i := range red1 {
		if red1[i] != red2[i] || ir1[i] != ir2[i] {
			t.Fatalf("sample %d differs between runs", i)
		}
	}
}

func TestGenerateStaysInADCRange(t *testing.T) {
	p := DefaultParams()
	p.IRDC = 260000 // push near the ceiling

	_, ir := Generate(p, 2000)
	for i, v := range ir {
		if v > ppg.ADCMax {
			t.Fatalf("sample %d = %d exceeds the 18-bit range", i, v)
		}
	}
}

func TestPulseTrainPeriod(t *testing.T) {
	p := DefaultParams()
	p.HeartRateBPM = 88
	p.NoiseLevel = 0
	p.BaselineAmplitude = 0

	_, ir := GeneratePulseTrain(p, 300)
	dc := uint32(p.IRDC)

	// 100 Hz at 88 bpm rounds to a 68-sample beat.
	if ir[0] == dc {
		t.Fatal("no pulse at the start of a beat")
	}
	if ir[68] != ir[0] || ir[136] != ir[0] {
		t.Fatalf("pulse train not periodic at 68 samples: %d %d %d", ir[0], ir[68], ir[136])
	}
	if ir[30] != dc {
		t.Fatalf("expected bare DC between beats, got %d", ir[30])
	}
}
