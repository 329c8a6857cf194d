package ppg

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-ppg/dsp/filter/design"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate Option
	}{
		{"sample rate", WithSampleRate(0)},
		{"period range", WithPeriodRange(200, 40)},
		{"hr bounds", WithHRBounds(100, 50)},
		{"hr window", WithHRWindow(4)},
		{"calc interval", WithCalcInterval(0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := applyOptions([]Option{tc.mutate})
			err := cfg.validate()
			if err == nil {
				t.Fatal("want error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestBandpassSectionsDefaultsToPulseBand(t *testing.T) {
	cfg := DefaultConfig()

	got, err := cfg.bandpassSections()
	if err != nil {
		t.Fatal(err)
	}

	want := design.PulseBandSOS()
	if len(got) != len(want) {
		t.Fatalf("sections = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("section %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBandpassSectionsDesignsForOtherRates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleRate = 200

	got, err := cfg.bandpassSections()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("no sections designed for 200 Hz")
	}
}

func TestNewRejectsUnknownMethod(t *testing.T) {
	if _, err := New(Method(42)); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestMethodString(t *testing.T) {
	if MethodTimeDomain.String() != "time-domain" {
		t.Fatal(MethodTimeDomain.String())
	}
	if MethodFrequencyDomain.String() != "frequency-domain" {
		t.Fatal(MethodFrequencyDomain.String())
	}
}

func TestADCClampsToCeiling(t *testing.T) {
	if got := adc18(0xFFFFFFFF); got != float64(ADCMax) {
		t.Fatalf("adc18 = %v, want %v", got, float64(ADCMax))
	}
	if got := adc18(12345); got != 12345 {
		t.Fatalf("adc18 = %v, want 12345", got)
	}
}
