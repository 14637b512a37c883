// Package distortion quantifies the harmonic distortion a backlash
// nonlinearity adds to a sinusoidal drive. The sine-driven response is
// windowed, transformed, and the energy at harmonic bins is compared
// against the fundamental.
package distortion

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/famura/blm/core"
)

const defaultMaxHarmonics = 10

// Config holds distortion analysis parameters.
type Config struct {
	// SampleRate in samples per second. Defaults to the FFT size, which
	// makes bin indices equal frequencies in cycles per buffer.
	SampleRate float64
	// FFTSize of the analysis. Defaults to the next power of two of the
	// signal length.
	FFTSize int
	// FundamentalHz of the drive. When zero the strongest bin is used.
	FundamentalHz float64
	// MaxHarmonics to accumulate above the fundamental. Defaults to 10.
	MaxHarmonics int
}

// Result holds distortion measurements.
type Result struct {
	// FundamentalBin is the analysis bin of the fundamental.
	FundamentalBin int
	// FundamentalLevel is the squared-magnitude energy at the fundamental.
	FundamentalLevel float64
	// HarmonicRatio is sqrt(harmonic energy / fundamental energy).
	HarmonicRatio float64
	// THDdB is HarmonicRatio expressed in dB.
	THDdB float64
	// Harmonics holds per-harmonic energy starting at the 2nd harmonic.
	Harmonics []float64
}

// AnalyzeSignal measures harmonic distortion of a sine-driven response.
func AnalyzeSignal(response []float64, cfg Config) (Result, error) {
	if len(response) < 4 {
		return Result{}, fmt.Errorf("distortion analysis needs at least 4 samples: %d", len(response))
	}
	for i, v := range response {
		if !core.IsFinite(v) {
			return Result{}, fmt.Errorf("distortion analysis input must be finite at index %d: %f", i, v)
		}
	}

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(response))
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(fftSize)
	}
	maxHarmonics := cfg.MaxHarmonics
	if maxHarmonics <= 0 {
		maxHarmonics = defaultMaxHarmonics
	}

	inData := make([]complex128, fftSize)
	for i, v := range response {
		if i >= fftSize {
			break
		}
		inData[i] = complex(v*hann(i, len(response)), 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("distortion analysis FFT plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, inData); err != nil {
		return Result{}, fmt.Errorf("distortion analysis FFT: %w", err)
	}

	binCount := fftSize/2 + 1
	re := make([]float64, binCount)
	im := make([]float64, binCount)
	for i := 0; i < binCount; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	magSquared := make([]float64, binCount)
	vecmath.Power(magSquared, re, im)

	binHz := cfg.SampleRate / float64(fftSize)

	fundamentalBin := 0
	if cfg.FundamentalHz > 0 {
		fundamentalBin = int(math.Round(cfg.FundamentalHz / binHz))
	} else {
		for k := 1; k < binCount; k++ {
			if magSquared[k] > magSquared[fundamentalBin] {
				fundamentalBin = k
			}
		}
	}
	if fundamentalBin < 1 || fundamentalBin >= binCount {
		return Result{}, fmt.Errorf("distortion analysis fundamental out of range: bin %d of %d",
			fundamentalBin, binCount)
	}

	res := Result{
		FundamentalBin:   fundamentalBin,
		FundamentalLevel: capture(magSquared, fundamentalBin),
	}
	if res.FundamentalLevel <= 0 {
		return Result{}, fmt.Errorf("distortion analysis found no energy at fundamental bin %d", fundamentalBin)
	}

	harmonicEnergy := 0.0
	for h := 2; h <= maxHarmonics; h++ {
		bin := h * fundamentalBin
		if bin >= binCount {
			break
		}
		e := capture(magSquared, bin)
		res.Harmonics = append(res.Harmonics, e)
		harmonicEnergy += e
	}

	res.HarmonicRatio = math.Sqrt(harmonicEnergy / res.FundamentalLevel)
	res.THDdB = core.LinearToDB(res.HarmonicRatio)

	return res, nil
}

// capture sums bin energy with one neighbor on each side to absorb window
// leakage.
func capture(magSquared []float64, bin int) float64 {
	sum := magSquared[bin]
	if bin > 0 {
		sum += magSquared[bin-1]
	}
	if bin+1 < len(magSquared) {
		sum += magSquared[bin+1]
	}
	return sum
}

func hann(i, n int) float64 {
	if n <= 1 {
		return 1
	}
	return 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
