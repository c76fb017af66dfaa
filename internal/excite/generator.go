// Package excite produces the drive signal injected at the input tap.
package excite

import (
	"fmt"
	"math"
	"strings"
)

// DefaultPeriod is the length in samples of one periodic excitation cycle.
const DefaultPeriod = 20

// Mode selects the excitation waveform.
type Mode uint8

const (
	Impulse Mode = iota
	Sine
	Sawtooth
	Sample
)

func (m Mode) String() string {
	switch m {
	case Impulse:
		return "impulse"
	case Sine:
		return "sine"
	case Sawtooth:
		return "sawtooth"
	case Sample:
		return "sample"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode maps a name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "impulse":
		return Impulse, nil
	case "sine", "sin":
		return Sine, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "sample":
		return Sample, nil
	}
	return Impulse, fmt.Errorf("unknown excitation mode %q", s)
}

// Generator is a one-shot waveform source. Arm starts a cycle; NextSample
// walks it and disarms at its end. While held, sine and sawtooth start a new
// cycle instead of disarming. A Generator belongs to the audio goroutine.
type Generator struct {
	mode   Mode
	period int
	phase  int
	armed  bool
	held   bool

	saw    []float64
	sample []float32
}

// NewGenerator precomputes the sawtooth ramp for period samples.
func NewGenerator(period int) (*Generator, error) {
	if period < 1 {
		return nil, fmt.Errorf("excite: period %d must be positive", period)
	}
	g := &Generator{period: period, saw: make([]float64, 3*period)}
	for i := range g.saw {
		g.saw[i] = float64(i%period) / float64(period)
	}
	return g, nil
}

// Mode returns the current waveform.
func (g *Generator) Mode() Mode { return g.mode }

// Period returns the cycle length of the periodic modes.
func (g *Generator) Period() int { return g.period }

// Armed reports whether the next call to NextSample injects a value.
func (g *Generator) Armed() bool { return g.armed }

// SetMode switches the waveform and restarts the phase.
func (g *Generator) SetMode(m Mode) {
	g.mode = m
	g.phase = 0
}

// SetSample installs the buffer played by the Sample mode. The slice is
// retained, not copied.
func (g *Generator) SetSample(samples []float32) {
	g.sample = samples
	g.phase = 0
}

// Arm starts a new cycle from phase zero.
func (g *Generator) Arm() {
	g.phase = 0
	g.armed = true
}

// Hold keeps periodic modes cycling until released. Releasing lets the
// running cycle finish.
func (g *Generator) Hold(held bool) { g.held = held }

// Disarm stops injection immediately.
func (g *Generator) Disarm() {
	g.armed = false
	g.held = false
	g.phase = 0
}

// cycleLen returns how many samples one armed cycle lasts.
func (g *Generator) cycleLen() int {
	switch g.mode {
	case Impulse:
		return 1
	case Sample:
		return len(g.sample)
	default:
		return g.period
	}
}

// NextSample returns the drive value for this sample and advances the phase.
// It returns 0 when disarmed.
func (g *Generator) NextSample() float64 {
	if !g.armed {
		return 0
	}
	n := g.cycleLen()
	if n == 0 {
		g.armed = false
		return 0
	}

	var v float64
	switch g.mode {
	case Impulse:
		v = 1
	case Sine:
		v = math.Sin(2 * math.Pi * float64(g.phase) / float64(g.period))
	case Sawtooth:
		v = g.saw[g.phase]
	case Sample:
		v = float64(g.sample[g.phase])
	}

	g.phase++
	if g.phase >= n {
		g.phase = 0
		periodic := g.mode == Sine || g.mode == Sawtooth
		if !g.held || !periodic {
			g.armed = false
		}
	}
	return v
}

// SawtoothTable returns the precomputed ramp, 3·period entries long.
func (g *Generator) SawtoothTable() []float64 { return g.saw }
