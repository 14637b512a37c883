// Package signal provides deterministic drive signals for exercising
// backlash models: periodic sweeps that force direction reversals and a
// linearly decaying sinusoid that walks the hysteresis loop inward.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"
	"github.com/famura/blm/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// SetSeed updates the deterministic random seed.
func (g *Generator) SetSeed(seed int64) { g.seed = seed }

// Seed returns the deterministic random seed.
func (g *Generator) Seed() int64 { return g.seed }

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("sine", samples); err != nil {
		return nil, err
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = math.Sin(step * float64(i))
	}
	vecmath.ScaleBlock(out, out, amplitude)
	return out, nil
}

// DecayingSine generates a sine wave whose amplitude decays linearly from
// amplitude to zero across the buffer.
func (g *Generator) DecayingSine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("decaying sine", samples); err != nil {
		return nil, err
	}
	out := make([]float64, samples)
	env := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = math.Sin(step * float64(i))
		env[i] = 1 - float64(i)/float64(samples)
	}
	vecmath.MulBlockInPlace(out, env)
	vecmath.ScaleBlock(out, out, amplitude)
	return out, nil
}

// Sawtooth generates a rising-ramp sawtooth in [-amplitude, amplitude].
func (g *Generator) Sawtooth(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("sawtooth", samples); err != nil {
		return nil, err
	}
	out := make([]float64, samples)
	for i := range out {
		phase := math.Mod(freqHz*float64(i)/g.cfg.SampleRate, 1)
		out[i] = 2*phase - 1
	}
	vecmath.ScaleBlock(out, out, amplitude)
	return out, nil
}

// Triangle generates a triangle wave in [-amplitude, amplitude] starting at
// zero and rising first.
func (g *Generator) Triangle(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("triangle", samples); err != nil {
		return nil, err
	}
	out := make([]float64, samples)
	for i := range out {
		phase := math.Mod(freqHz*float64(i)/g.cfg.SampleRate, 1)
		switch {
		case phase < 0.25:
			out[i] = 4 * phase
		case phase < 0.75:
			out[i] = 2 - 4*phase
		default:
			out[i] = 4*phase - 4
		}
	}
	vecmath.ScaleBlock(out, out, amplitude)
	return out, nil
}

// Multisine generates a sum of equal-amplitude sine components.
func (g *Generator) Multisine(freqsHz []float64, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("multisine", samples); err != nil {
		return nil, err
	}
	if len(freqsHz) == 0 {
		return nil, fmt.Errorf("multisine needs at least one frequency")
	}

	out := make([]float64, samples)
	component := make([]float64, samples)

	for _, f := range freqsHz {
		step := 2 * math.Pi * f / g.cfg.SampleRate
		for i := range component {
			component[i] = math.Sin(step * float64(i))
		}
		vecmath.AddBlockInPlace(out, component)
	}

	vecmath.ScaleBlock(out, out, amplitude/float64(len(freqsHz)))
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	vecmath.ScaleBlock(out, data, targetPeak/maxAbs)
	return out, nil
}

func (g *Generator) check(kind string, samples int) error {
	if samples <= 0 {
		return fmt.Errorf("%s samples must be > 0: %d", kind, samples)
	}
	if g.cfg.SampleRate <= 0 {
		return fmt.Errorf("%s sample rate must be > 0: %f", kind, g.cfg.SampleRate)
	}
	return nil
}
