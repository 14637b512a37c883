package backlash

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/famura/blm/core"
)

var (
	// ErrInvalidParameter reports a rejected construction parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidInput reports a non-finite input sample.
	ErrInvalidInput = errors.New("invalid input")
)

// Zone identifies the linear region the model currently occupies.
type Zone int

const (
	// ZoneDead means the input lies between the decision lines; the
	// output is held.
	ZoneDead Zone = iota
	// ZoneTrackingLower means the output follows the lower decision line.
	ZoneTrackingLower
	// ZoneTrackingUpper means the output follows the upper decision line.
	ZoneTrackingUpper
)

// String returns the zone name.
func (z Zone) String() string {
	switch z {
	case ZoneTrackingLower:
		return "tracking-lower"
	case ZoneTrackingUpper:
		return "tracking-upper"
	default:
		return "dead-zone"
	}
}

// Option mutates construction-time parameters.
type Option func(*config) error

type config struct {
	initialInput  float64
	initialOutput float64
}

// WithInitialState sets the initial (input, output) state. Default is (0, 0).
func WithInitialState(input, output float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(input) || !core.IsFinite(output) {
			return fmt.Errorf("%w: backlash initial state must be finite: (%f, %f)",
				ErrInvalidParameter, input, output)
		}
		cfg.initialInput = input
		cfg.initialOutput = output
		return nil
	}
}

// Model is a stateful backlash nonlinearity. It holds the most recent input
// and output and derives the current decision boundaries from them; the full
// input history is never needed.
type Model struct {
	loSlope  float64
	upSlope  float64
	loOffset float64
	upOffset float64

	lastInput  float64
	lastOutput float64
	zone       Zone
}

// New creates a symmetric backlash model with the given slope and dead-zone
// half-width. Both decision lines use the same slope; width is the input
// offset of each line, so a full direction reversal traverses 2*width of
// input before the output moves again.
func New(slope, width float64, opts ...Option) (*Model, error) {
	if slope <= 0 || !core.IsFinite(slope) {
		return nil, fmt.Errorf("%w: backlash slope must be > 0 and finite: %f", ErrInvalidParameter, slope)
	}
	if width < 0 || !core.IsFinite(width) {
		return nil, fmt.Errorf("%w: backlash width must be >= 0 and finite: %f", ErrInvalidParameter, width)
	}
	return NewAsymmetric(slope, slope, width, width, opts...)
}

// NewAsymmetric creates a backlash model with independent lower and upper
// decision lines. Slopes must be nonzero and offsets non-negative.
func NewAsymmetric(loSlope, upSlope, loOffset, upOffset float64, opts ...Option) (*Model, error) {
	if loSlope == 0 || !core.IsFinite(loSlope) {
		return nil, fmt.Errorf("%w: backlash lower slope must be nonzero and finite: %f", ErrInvalidParameter, loSlope)
	}
	if upSlope == 0 || !core.IsFinite(upSlope) {
		return nil, fmt.Errorf("%w: backlash upper slope must be nonzero and finite: %f", ErrInvalidParameter, upSlope)
	}
	if loOffset < 0 || !core.IsFinite(loOffset) {
		return nil, fmt.Errorf("%w: backlash lower offset must be >= 0 and finite: %f", ErrInvalidParameter, loOffset)
	}
	if upOffset < 0 || !core.IsFinite(upOffset) {
		return nil, fmt.Errorf("%w: backlash upper offset must be >= 0 and finite: %f", ErrInvalidParameter, upOffset)
	}

	var cfg config
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Model{
		loSlope:    loSlope,
		upSlope:    upSlope,
		loOffset:   loOffset,
		upOffset:   upOffset,
		lastInput:  cfg.initialInput,
		lastOutput: cfg.initialOutput,
		zone:       ZoneDead,
	}, nil
}

// ProcessSample advances the model by one input sample and returns the new
// output. The input is compared against the current decision boundaries:
// at or beyond a boundary the output follows that line, between them the
// output is held. State is untouched when the input is rejected.
func (m *Model) ProcessSample(input float64) (float64, error) {
	if !core.IsFinite(input) {
		return 0, fmt.Errorf("%w: backlash input must be finite: %f", ErrInvalidInput, input)
	}

	switch {
	case input <= m.LowerBoundary():
		m.lastOutput = m.loSlope * (input + m.loOffset)
		m.zone = ZoneTrackingLower
	case input >= m.UpperBoundary():
		m.lastOutput = m.upSlope * (input - m.upOffset)
		m.zone = ZoneTrackingUpper
	default:
		m.zone = ZoneDead
	}

	m.lastInput = input

	return m.lastOutput, nil
}

// Process runs the model over src and writes one output per input to dst.
// It is a sequential fold: each output depends on the state left behind by
// the previous sample. All inputs are validated before any state changes,
// so a rejected call leaves the model untouched.
func (m *Model) Process(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: backlash buffer length mismatch: dst=%d src=%d",
			ErrInvalidInput, len(dst), len(src))
	}
	if err := requireFinite(src); err != nil {
		return err
	}

	for i, u := range src {
		x, err := m.ProcessSample(u)
		if err != nil {
			return err
		}
		dst[i] = x
	}

	return nil
}

// ProcessInPlace applies the model to a buffer in place.
func (m *Model) ProcessInPlace(buf []float64) error {
	return m.Process(buf, buf)
}

// Reset reinitializes the state to the given (input, output) pair and
// returns the model to the dead zone. State is untouched on error.
func (m *Model) Reset(input, output float64) error {
	if !core.IsFinite(input) || !core.IsFinite(output) {
		return fmt.Errorf("%w: backlash reset state must be finite: (%f, %f)",
			ErrInvalidInput, input, output)
	}

	m.lastInput = input
	m.lastOutput = output
	m.zone = ZoneDead

	return nil
}

// LowerBoundary returns the input value where the lower decision line
// intersects the current output level. Inputs at or below it track the
// lower line.
func (m *Model) LowerBoundary() float64 {
	return m.lastOutput/m.loSlope - m.loOffset
}

// UpperBoundary returns the input value where the upper decision line
// intersects the current output level. Inputs at or above it track the
// upper line.
func (m *Model) UpperBoundary() float64 {
	return m.lastOutput/m.upSlope + m.upOffset
}

// LoSlope returns the slope of the lower decision line.
func (m *Model) LoSlope() float64 { return m.loSlope }

// UpSlope returns the slope of the upper decision line.
func (m *Model) UpSlope() float64 { return m.upSlope }

// LoOffset returns the input offset of the lower decision line.
func (m *Model) LoOffset() float64 { return m.loOffset }

// UpOffset returns the input offset of the upper decision line.
func (m *Model) UpOffset() float64 { return m.upOffset }

// LastInput returns the most recent input sample.
func (m *Model) LastInput() float64 { return m.lastInput }

// LastOutput returns the most recent output sample.
func (m *Model) LastOutput() float64 { return m.lastOutput }

// Zone returns the linear region selected by the most recent sample.
func (m *Model) Zone() Zone { return m.zone }

// String returns the model parameters formatted as a table.
func (m *Model) String() string {
	var b strings.Builder

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "loSlope\t%g\n", m.loSlope)
	fmt.Fprintf(w, "upSlope\t%g\n", m.upSlope)
	fmt.Fprintf(w, "loOffset\t%g\n", m.loOffset)
	fmt.Fprintf(w, "upOffset\t%g\n", m.upOffset)
	w.Flush()

	return b.String()
}

func requireFinite(data []float64) error {
	for i, v := range data {
		if !core.IsFinite(v) {
			return fmt.Errorf("%w: backlash input must be finite at index %d: %f",
				ErrInvalidInput, i, v)
		}
	}
	return nil
}
