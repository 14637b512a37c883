// Package hysteresis analyzes recorded input/output trajectories of a
// backlash system. For each output level it measures the spread of input
// values that produced it; for an ideal backlash loop that spread equals
// the input-axis width of the hysteresis loop.
package hysteresis

import (
	"fmt"
	"math"
	"sort"

	"github.com/famura/blm/core"
)

const defaultBins = 64

// Config holds trajectory analysis parameters.
type Config struct {
	// Bins is the number of output-level bins. Defaults to 64.
	Bins int
}

// Result holds hysteresis loop measurements.
type Result struct {
	// LoopWidth is the estimated loop width on the input axis: the median
	// input spread across output levels, compensated for the output
	// quantization of the level bins.
	LoopWidth float64
	// MaxSpread is the largest input spread across all output levels.
	MaxSpread float64
	// TrackingSlope is the median output/input slope over samples where
	// the output moved, i.e. the slope of the tracking branches.
	TrackingSlope float64
	// InputPeak and OutputPeak are the absolute peaks of the trajectories.
	InputPeak  float64
	OutputPeak float64
	// Levels is the number of output bins that received samples.
	Levels int
}

// Calculator performs trajectory analysis with a fixed configuration.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a trajectory analyzer.
func NewCalculator(cfg Config) *Calculator {
	if cfg.Bins <= 0 {
		cfg.Bins = defaultBins
	}
	return &Calculator{cfg: cfg}
}

// Analyze is a one-shot trajectory analysis.
func Analyze(input, output []float64, cfg Config) (Result, error) {
	return NewCalculator(cfg).Analyze(input, output)
}

// Analyze measures the hysteresis loop described by the paired input and
// output trajectories.
func (c *Calculator) Analyze(input, output []float64) (Result, error) {
	if len(input) != len(output) {
		return Result{}, fmt.Errorf("hysteresis trajectory length mismatch: input=%d output=%d",
			len(input), len(output))
	}
	if len(input) < 2 {
		return Result{}, fmt.Errorf("hysteresis trajectory too short: %d samples", len(input))
	}
	for i := range input {
		if !core.IsFinite(input[i]) || !core.IsFinite(output[i]) {
			return Result{}, fmt.Errorf("hysteresis trajectory must be finite at index %d", i)
		}
	}

	outMin, outMax := output[0], output[0]
	for _, v := range output {
		outMin = math.Min(outMin, v)
		outMax = math.Max(outMax, v)
	}

	res := Result{
		InputPeak:  maxAbs(input),
		OutputPeak: maxAbs(output),
	}

	span := outMax - outMin
	if span == 0 {
		// Output never moved; the whole trajectory is one dead-zone hold.
		res.LoopWidth = inputSpread(input)
		res.MaxSpread = res.LoopWidth
		res.Levels = 1
		return res, nil
	}

	type binRange struct {
		lo, hi float64
		seen   bool
	}

	bins := make([]binRange, c.cfg.Bins)
	for i := range output {
		idx := int(float64(c.cfg.Bins) * (output[i] - outMin) / span)
		if idx >= c.cfg.Bins {
			idx = c.cfg.Bins - 1
		}

		b := &bins[idx]
		if !b.seen {
			b.lo, b.hi = input[i], input[i]
			b.seen = true
			continue
		}
		b.lo = math.Min(b.lo, input[i])
		b.hi = math.Max(b.hi, input[i])
	}

	var spreads []float64
	for _, b := range bins {
		if !b.seen {
			continue
		}
		res.Levels++
		s := b.hi - b.lo
		spreads = append(spreads, s)
		res.MaxSpread = math.Max(res.MaxSpread, s)
	}

	sort.Float64s(spreads)
	res.LoopWidth = spreads[len(spreads)/2]
	res.TrackingSlope = trackingSlope(input, output)

	// Within one output bin the tracking branches themselves sweep
	// binSpan/slope of input; remove that share from the spread.
	if res.TrackingSlope != 0 {
		binSpan := span / float64(c.cfg.Bins)
		res.LoopWidth = math.Max(0, res.LoopWidth-binSpan/math.Abs(res.TrackingSlope))
	}

	return res, nil
}

func trackingSlope(input, output []float64) float64 {
	const tiny = 1e-12

	var slopes []float64
	for i := 1; i < len(input); i++ {
		dx := output[i] - output[i-1]
		du := input[i] - input[i-1]
		if math.Abs(dx) > tiny && math.Abs(du) > tiny {
			slopes = append(slopes, dx/du)
		}
	}
	if len(slopes) == 0 {
		return 0
	}

	sort.Float64s(slopes)
	return slopes[len(slopes)/2]
}

func maxAbs(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func inputSpread(x []float64) float64 {
	lo, hi := x[0], x[0]
	for _, v := range x {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi - lo
}
