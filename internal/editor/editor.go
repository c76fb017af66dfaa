// Package editor turns UI intents into topology edits. It runs on the UI
// goroutine: every edit is checked and applied on a private mirror of the
// live store, and only edits that succeeded there are staged for the audio
// goroutine through a synth.Queue.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"molsynth/internal/excite"
	"molsynth/internal/synth"
	"molsynth/internal/topology"
	"molsynth/internal/wave"
)

// ErrQueueFull is returned when the audio goroutine has not drained earlier
// edits yet. Nothing was changed; the intent can be retried.
var ErrQueueFull = errors.New("editor: command queue full")

// Editor is the single entry point for UI intents. It is not safe for
// concurrent use.
type Editor struct {
	queue  *synth.Queue
	mirror *topology.Store
	log    *slog.Logger

	mode       Mode
	excitation excite.Mode
	waveSpeed  float64
	damping    float64
	exciting   bool
}

// New returns an editor staging into queue. params seeds the values
// reported by WaveSpeed and Damping.
func New(queue *synth.Queue, params wave.Params, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		queue:     queue,
		log:       logger,
		waveSpeed: params.WaveSpeed,
		damping:   params.Damping,
	}
}

// Mode returns the interactive mode.
func (e *Editor) Mode() Mode { return e.mode }

// Excitation returns the selected excitation waveform.
func (e *Editor) Excitation() excite.Mode { return e.excitation }

// WaveSpeed returns the wave speed last sent to the engine.
func (e *Editor) WaveSpeed() float64 { return e.waveSpeed }

// Damping returns the damping last sent to the engine.
func (e *Editor) Damping() float64 { return e.damping }

// Topology returns the mirror store. Callers must treat it as read-only.
func (e *Editor) Topology() *topology.Store { return e.mirror }

// Apply validates in, updates the mirror and stages the edit. On error
// neither the mirror nor the live topology changed.
func (e *Editor) Apply(in Intent) error {
	err := e.apply(in)
	if err != nil {
		e.log.Debug("intent rejected", "intent", fmt.Sprintf("%T", in), "err", err)
	}
	return err
}

func (e *Editor) apply(in Intent) error {
	switch in := in.(type) {
	case AddNode:
		return e.addNode(in.X, in.Y)
	case Connect:
		return e.connectNearest(in.X, in.Y)
	case SetInputTap:
		return e.tapNearest(in.X, in.Y, synth.OpSetInputTap)
	case SetOutputTap:
		return e.tapNearest(in.X, in.Y, synth.OpSetOutputTap)
	case SelectInputTap:
		return e.setTap(in.ID, synth.OpSetInputTap)
	case SelectOutputTap:
		return e.setTap(in.ID, synth.OpSetOutputTap)
	case SetExcitationMode:
		if err := e.stage(synth.Command{Op: synth.OpSetExcitation, Mode: in.Mode}); err != nil {
			return err
		}
		e.excitation = in.Mode
		return nil
	case SetExcitationSample:
		return e.stage(synth.Command{Op: synth.OpSetSample, Sample: in.Samples})
	case SetParameter:
		return e.setParameter(in.Param, in.Value)
	case SetInteractiveMode:
		if in.Mode > ModeOutputTap {
			return fmt.Errorf("editor: unknown interactive mode %d", in.Mode)
		}
		if e.exciting && in.Mode != ModeExcite {
			if err := e.stage(synth.Command{Op: synth.OpRelease}); err != nil {
				return err
			}
			e.exciting = false
		}
		e.mode = in.Mode
		return nil
	case Press:
		return e.press(in.X, in.Y)
	case Drag:
		return nil
	case Release:
		if !e.exciting {
			return nil
		}
		if err := e.stage(synth.Command{Op: synth.OpRelease}); err != nil {
			return err
		}
		e.exciting = false
		return nil
	case Reset:
		return e.reset(in.Store)
	case nil:
		return errors.New("editor: nil intent")
	default:
		return fmt.Errorf("editor: unsupported intent %T", in)
	}
}

// press interprets a pointer press according to the interactive mode.
func (e *Editor) press(x, y float32) error {
	switch e.mode {
	case ModeExcite:
		if err := e.stage(synth.Command{Op: synth.OpArm, A: 1}); err != nil {
			return err
		}
		e.exciting = true
		return nil
	case ModeCreate:
		return e.addNode(x, y)
	case ModeConnect:
		return e.connectNearest(x, y)
	case ModeInputTap:
		return e.tapNearest(x, y, synth.OpSetInputTap)
	case ModeOutputTap:
		return e.tapNearest(x, y, synth.OpSetOutputTap)
	}
	return fmt.Errorf("editor: unknown interactive mode %d", e.mode)
}

func (e *Editor) addNode(x, y float32) error {
	if err := e.ready(); err != nil {
		return err
	}
	id, err := e.mirror.AddNode(x, y)
	if err != nil {
		return err
	}
	e.mustStage(synth.Command{Op: synth.OpAddNode, X: x, Y: y})
	e.log.Debug("node added", "id", id, "x", x, "y", y)
	return nil
}

func (e *Editor) connectNearest(x, y float32) error {
	if err := e.ready(); err != nil {
		return err
	}
	a, b, ok := e.mirror.TwoNearest(x, y)
	if !ok {
		return fmt.Errorf("%w: connecting needs two nodes, have %d", topology.ErrInvalidNode, e.mirror.Count())
	}
	if err := e.mirror.Connect(a, b); err != nil {
		return err
	}
	e.mustStage(synth.Command{Op: synth.OpConnect, A: int32(a), B: int32(b)})
	e.log.Debug("nodes connected", "a", a, "b", b)
	return nil
}

func (e *Editor) tapNearest(x, y float32, op synth.Op) error {
	if err := e.ready(); err != nil {
		return err
	}
	id, ok := e.mirror.Nearest(x, y)
	if !ok {
		return fmt.Errorf("%w: topology is empty", topology.ErrInvalidTapIndex)
	}
	return e.setTap(id, op)
}

func (e *Editor) setTap(id int, op synth.Op) error {
	if err := e.ready(); err != nil {
		return err
	}
	var err error
	if op == synth.OpSetInputTap {
		err = e.mirror.SetInputTap(id)
	} else {
		err = e.mirror.SetOutputTap(id)
	}
	if err != nil {
		return err
	}
	e.mustStage(synth.Command{Op: op, A: int32(id)})
	return nil
}

func (e *Editor) setParameter(p Param, linear float64) error {
	v := linear * linear
	var op synth.Op
	switch p {
	case WaveSpeed:
		op = synth.OpSetWaveSpeed
	case Damping:
		op = synth.OpSetDamping
	default:
		return fmt.Errorf("editor: unknown parameter %d", p)
	}
	if err := e.stage(synth.Command{Op: op, Value: v}); err != nil {
		return err
	}
	if p == WaveSpeed {
		e.waveSpeed = v
	} else {
		e.damping = v
	}
	return nil
}

func (e *Editor) reset(s *topology.Store) error {
	if s == nil {
		return errors.New("editor: reset without a topology")
	}
	if e.queue.Full() {
		return ErrQueueFull
	}
	e.mirror = s.Clone()
	e.mustStage(synth.Command{Op: synth.OpReset, Store: s})
	e.log.Info("topology staged", "nodes", s.Count(), "input", s.InputTap(), "output", s.OutputTap())
	return nil
}

// ready checks that a topology is installed and that the queue can take
// one more command. With a single producer the room cannot disappear
// before mustStage runs.
func (e *Editor) ready() error {
	if e.mirror == nil {
		return synth.ErrNotReady
	}
	if e.queue.Full() {
		return ErrQueueFull
	}
	return nil
}

func (e *Editor) stage(c synth.Command) error {
	if !e.queue.Push(c) {
		return ErrQueueFull
	}
	return nil
}

func (e *Editor) mustStage(c synth.Command) {
	if !e.queue.Push(c) {
		panic("editor: queue filled between check and push")
	}
}
