// Command blmdemo drives a backlash model with a decaying sinusoid and
// prints the model parameters together with measured loop properties.
//
// Usage:
//
//	blmdemo [flags]
//
// Examples:
//
//	blmdemo -slope 2 -width 1
//	blmdemo -amp 5 -freq 1 -duration 4
//	blmdemo -lo-slope 2 -up-slope 1.9 -lo-offset 2.5 -up-offset 2.7
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/famura/blm/backlash"
	"github.com/famura/blm/core"
	"github.com/famura/blm/measure/distortion"
	"github.com/famura/blm/measure/hysteresis"
	"github.com/famura/blm/signal"
)

func main() {
	var (
		slope = flag.Float64("slope", 1.0, "slope of both decision lines (symmetric model)")
		width = flag.Float64("width", 0.5, "dead-zone half-width (symmetric model)")

		loSlope  = flag.Float64("lo-slope", math.NaN(), "slope of the lower decision line (overrides -slope)")
		upSlope  = flag.Float64("up-slope", math.NaN(), "slope of the upper decision line (overrides -slope)")
		loOffset = flag.Float64("lo-offset", math.NaN(), "offset of the lower decision line (overrides -width)")
		upOffset = flag.Float64("up-offset", math.NaN(), "offset of the upper decision line (overrides -width)")

		amp      = flag.Float64("amp", 4.0, "drive amplitude")
		freq     = flag.Float64("freq", 1.0, "drive frequency in Hz")
		duration = flag.Float64("duration", 5.0, "drive duration in seconds")
		rate     = flag.Float64("rate", 500.0, "sample rate in samples per second")
	)
	flag.Parse()

	if err := run(config{
		loSlope:  fallback(*loSlope, *slope),
		upSlope:  fallback(*upSlope, *slope),
		loOffset: fallback(*loOffset, *width),
		upOffset: fallback(*upOffset, *width),
		amp:      *amp,
		freq:     *freq,
		duration: *duration,
		rate:     *rate,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "blmdemo:", err)
		os.Exit(1)
	}
}

type config struct {
	loSlope, upSlope   float64
	loOffset, upOffset float64
	amp, freq          float64
	duration, rate     float64
}

func run(cfg config) error {
	samples := int(cfg.duration * cfg.rate)
	if samples <= 0 {
		return fmt.Errorf("duration and rate must be positive: %g s at %g Hz", cfg.duration, cfg.rate)
	}

	m, err := backlash.NewAsymmetric(cfg.loSlope, cfg.upSlope, cfg.loOffset, cfg.upOffset)
	if err != nil {
		return err
	}

	g := signal.NewGenerator(core.WithSampleRate(cfg.rate))

	drive, err := g.DecayingSine(cfg.freq, cfg.amp, samples)
	if err != nil {
		return err
	}
	response := make([]float64, len(drive))
	if err := m.Process(response, drive); err != nil {
		return err
	}

	loop, err := hysteresis.Analyze(drive, response, hysteresis.Config{})
	if err != nil {
		return err
	}

	// Distortion is measured on a steady sine so the harmonic bins stay put.
	steady, err := g.Sine(cfg.freq, cfg.amp, samples)
	if err != nil {
		return err
	}
	if err := m.Reset(0, 0); err != nil {
		return err
	}
	steadyResponse := make([]float64, len(steady))
	if err := m.Process(steadyResponse, steady); err != nil {
		return err
	}
	thd, err := distortion.AnalyzeSignal(steadyResponse, distortion.Config{
		SampleRate:    cfg.rate,
		FundamentalHz: cfg.freq,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "parameter\tvalue")
	fmt.Fprintf(w, "loSlope\t%g\n", m.LoSlope())
	fmt.Fprintf(w, "upSlope\t%g\n", m.UpSlope())
	fmt.Fprintf(w, "loOffset\t%g\n", m.LoOffset())
	fmt.Fprintf(w, "upOffset\t%g\n", m.UpOffset())
	fmt.Fprintln(w, "\t")
	fmt.Fprintln(w, "measurement\tvalue")
	fmt.Fprintf(w, "loop width\t%.4f\n", loop.LoopWidth)
	fmt.Fprintf(w, "tracking slope\t%.4f\n", loop.TrackingSlope)
	fmt.Fprintf(w, "input peak\t%.4f\n", loop.InputPeak)
	fmt.Fprintf(w, "output peak\t%.4f\n", loop.OutputPeak)
	fmt.Fprintf(w, "output levels\t%d\n", loop.Levels)
	fmt.Fprintf(w, "harmonic ratio\t%.4f\n", thd.HarmonicRatio)
	fmt.Fprintf(w, "THD\t%.1f dB\n", thd.THDdB)

	return w.Flush()
}

func fallback(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return v
}
