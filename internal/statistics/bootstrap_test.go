package statistics

import (
	"math"
	"testing"
)

func TestBootstrapCISmallSamples(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"empty", nil},
		{"single", []float64{0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ci := BootstrapCI(tt.values, 0.95)
			if ci.Lower != ci.Upper {
				t.Errorf("interval should collapse: [%f, %f]", ci.Lower, ci.Upper)
			}
			if ci.NumBootstraps != 0 {
				t.Errorf("NumBootstraps = %d, want 0", ci.NumBootstraps)
			}
		})
	}
}

func TestBootstrapCIWithSeedIsDeterministic(t *testing.T) {
	values := []float64{1, 0, 1, 1, 0, 1, 0, 1}

	a := BootstrapCIWithSeed(values, 0.95, 42)
	b := BootstrapCIWithSeed(values, 0.95, 42)
	if a != b {
		t.Errorf("same seed produced different intervals: %+v vs %+v", a, b)
	}
}

func TestBootstrapCIBrackets(t *testing.T) {
	values := []float64{1, 0, 1, 1, 0, 1, 0, 1}
	m := mean(values)

	ci := BootstrapCIWithSeed(values, 0.95, 7)
	if ci.Lower > m || ci.Upper < m {
		t.Errorf("interval [%f, %f] does not bracket the mean %f", ci.Lower, ci.Upper, m)
	}
	if ci.NumBootstraps != DefaultBootstrapIterations {
		t.Errorf("NumBootstraps = %d, want %d", ci.NumBootstraps, DefaultBootstrapIterations)
	}
	if math.Abs(ci.Mean-m) > 1e-9 {
		t.Errorf("Mean = %f, want %f", ci.Mean, m)
	}
}

func TestBootstrapCIUniformValues(t *testing.T) {
	values := []float64{1, 1, 1, 1}
	ci := BootstrapCIWithSeed(values, 0.95, 1)
	if ci.Lower != 1 || ci.Upper != 1 {
		t.Errorf("uniform input should collapse to [1, 1], got [%f, %f]", ci.Lower, ci.Upper)
	}
}
