package editor

import (
	"fmt"
	"strings"

	"molsynth/internal/excite"
	"molsynth/internal/topology"
)

// Intent is one request from the UI layer. The set of implementations is
// closed; Editor.Apply switches over all of them.
type Intent interface {
	intent()
}

// AddNode appends a node at a screen position.
type AddNode struct{ X, Y float32 }

// Connect joins the two nodes nearest to a screen position.
type Connect struct{ X, Y float32 }

// SetInputTap moves the excitation to the node nearest a screen position.
type SetInputTap struct{ X, Y float32 }

// SetOutputTap moves the audio tap to the node nearest a screen position.
type SetOutputTap struct{ X, Y float32 }

// SelectInputTap sets the excitation node by id.
type SelectInputTap struct{ ID int }

// SelectOutputTap sets the audio tap by id.
type SelectOutputTap struct{ ID int }

// SetExcitationMode switches the excitation waveform.
type SetExcitationMode struct{ Mode excite.Mode }

// SetExcitationSample installs the buffer played in sample mode.
type SetExcitationSample struct{ Samples []float32 }

// SetParameter changes a physical constant. Value is the linear control
// position; the editor squares it before it reaches the engine.
type SetParameter struct {
	Param Param
	Value float64
}

// SetInteractiveMode selects how gestures are interpreted.
type SetInteractiveMode struct{ Mode Mode }

// Press, Drag and Release are pointer gestures.
type (
	Press   struct{ X, Y float32 }
	Drag    struct{ X, Y float32 }
	Release struct{}
)

// Reset replaces the whole topology with a freshly loaded store.
type Reset struct{ Store *topology.Store }

func (AddNode) intent()             {}
func (Connect) intent()             {}
func (SetInputTap) intent()         {}
func (SetOutputTap) intent()        {}
func (SelectInputTap) intent()      {}
func (SelectOutputTap) intent()     {}
func (SetExcitationMode) intent()   {}
func (SetExcitationSample) intent() {}
func (SetParameter) intent()        {}
func (SetInteractiveMode) intent()  {}
func (Press) intent()               {}
func (Drag) intent()                {}
func (Release) intent()             {}
func (Reset) intent()               {}

// Param names an adjustable physical constant.
type Param uint8

const (
	WaveSpeed Param = iota
	Damping
)

func (p Param) String() string {
	switch p {
	case WaveSpeed:
		return "wave-speed"
	case Damping:
		return "damping"
	}
	return fmt.Sprintf("Param(%d)", uint8(p))
}

// Mode is the interactive mode deciding what a press does.
type Mode uint8

const (
	ModeExcite Mode = iota
	ModeCreate
	ModeConnect
	ModeInputTap
	ModeOutputTap
)

func (m Mode) String() string {
	switch m {
	case ModeExcite:
		return "excite"
	case ModeCreate:
		return "create"
	case ModeConnect:
		return "connect"
	case ModeInputTap:
		return "input-tap"
	case ModeOutputTap:
		return "output-tap"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode maps a name to an interactive Mode.
func ParseMode(s string) (Mode, error) {
	for m := ModeExcite; m <= ModeOutputTap; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return ModeExcite, fmt.Errorf("unknown interactive mode %q", s)
}
