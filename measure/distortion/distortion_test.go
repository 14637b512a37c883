package distortion_test

import (
	"math"
	"testing"

	"github.com/famura/blm/backlash"
	"github.com/famura/blm/core"
	"github.com/famura/blm/internal/testutil"
	"github.com/famura/blm/measure/distortion"
	"github.com/famura/blm/signal"
)

const (
	testRate = 1024.0
	testLen  = 1024
	testFreq = 8.0
)

func sineResponse(t *testing.T, slope, width float64) []float64 {
	t.Helper()

	g := signal.NewGenerator(core.WithSampleRate(testRate))
	in, err := g.Sine(testFreq, 1.5, testLen)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}

	m, err := backlash.New(slope, width)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out := make([]float64, len(in))
	if err := m.Process(out, in); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	testutil.RequireFinite(t, out)

	return out
}

func TestAnalyzeSignalLinearResponse(t *testing.T) {
	out := sineResponse(t, 2.0, 0)

	res, err := distortion.AnalyzeSignal(out, distortion.Config{SampleRate: testRate})
	if err != nil {
		t.Fatalf("AnalyzeSignal() error = %v", err)
	}

	if res.FundamentalBin != int(testFreq) {
		t.Fatalf("FundamentalBin = %d, want %d", res.FundamentalBin, int(testFreq))
	}
	if res.HarmonicRatio > 0.01 {
		t.Fatalf("HarmonicRatio = %v, want < 0.01 for a linear response", res.HarmonicRatio)
	}
}

func TestAnalyzeSignalBacklashAddsHarmonics(t *testing.T) {
	linear := sineResponse(t, 2.0, 0)
	distorted := sineResponse(t, 2.0, 0.5)

	cfg := distortion.Config{SampleRate: testRate, FundamentalHz: testFreq}

	resLin, err := distortion.AnalyzeSignal(linear, cfg)
	if err != nil {
		t.Fatalf("AnalyzeSignal(linear) error = %v", err)
	}
	resBl, err := distortion.AnalyzeSignal(distorted, cfg)
	if err != nil {
		t.Fatalf("AnalyzeSignal(backlash) error = %v", err)
	}

	if resBl.HarmonicRatio < 0.05 {
		t.Fatalf("HarmonicRatio = %v, want > 0.05 for backlash response", resBl.HarmonicRatio)
	}
	if resBl.HarmonicRatio < 10*resLin.HarmonicRatio {
		t.Fatalf("expected backlash to dominate: backlash=%v linear=%v",
			resBl.HarmonicRatio, resLin.HarmonicRatio)
	}
	if resBl.THDdB <= resLin.THDdB {
		t.Fatalf("THDdB: backlash=%v should exceed linear=%v", resBl.THDdB, resLin.THDdB)
	}
	if len(resBl.Harmonics) == 0 {
		t.Fatal("expected harmonic energies")
	}
}

func TestAnalyzeSignalValidation(t *testing.T) {
	if _, err := distortion.AnalyzeSignal([]float64{1, 2}, distortion.Config{}); err == nil {
		t.Fatal("expected error for short input")
	}
	if _, err := distortion.AnalyzeSignal([]float64{1, 2, math.NaN(), 4}, distortion.Config{}); err == nil {
		t.Fatal("expected error for non-finite input")
	}

	out := make([]float64, 64) // silence has no fundamental energy
	if _, err := distortion.AnalyzeSignal(out, distortion.Config{}); err == nil {
		t.Fatal("expected error for signal without a fundamental")
	}
}
