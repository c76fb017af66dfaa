// Package synth turns the wave engine into an audio source. The Renderer is
// driven from the audio goroutine; every structural or parameter change
// reaches it through a Queue and is applied at the start of a block, so the
// engine never sees a half-applied edit.
package synth

import (
	"errors"
	"math"
	"sync/atomic"

	"molsynth/internal/excite"
	"molsynth/internal/wave"
)

// ErrNotReady is returned by Render until a topology has been installed.
var ErrNotReady = errors.New("synth: no topology loaded")

// Renderer drives the engine once per output frame.
type Renderer struct {
	engine *wave.Engine
	gen    *excite.Generator
	queue  *Queue
	ready  bool

	rejected atomic.Uint64
	peak     atomic.Uint64 // float64 bits of the last block's peak
}

// NewRenderer wires an engine, a generator and the queue feeding them.
func NewRenderer(engine *wave.Engine, gen *excite.Generator, queue *Queue) *Renderer {
	return &Renderer{
		engine: engine,
		gen:    gen,
		queue:  queue,
		ready:  engine.Store() != nil,
	}
}

// Render applies the staged commands and then fills dst with interleaved
// stereo frames, both channels carrying the output tap. Before a topology is
// installed dst is zeroed and ErrNotReady returned.
func (r *Renderer) Render(dst []float32) error {
	r.applyPending()
	if !r.ready {
		clear(dst)
		r.peak.Store(0)
		return ErrNotReady
	}
	frames := len(dst) / 2
	var peak float64
	for i := 0; i < frames; i++ {
		driven := r.gen.Armed()
		v := r.gen.NextSample()
		out := r.engine.Step(v, driven)
		if a := math.Abs(out); a > peak {
			peak = a
		}
		dst[2*i] = float32(out)
		dst[2*i+1] = float32(out)
	}
	if len(dst)%2 == 1 {
		dst[len(dst)-1] = 0
	}
	r.peak.Store(math.Float64bits(peak))
	return nil
}

// Ready reports whether a topology is installed. Audio goroutine only.
func (r *Renderer) Ready() bool { return r.ready }

// Rejected counts staged commands the live store refused. It stays at zero
// as long as every command was validated against a mirror first.
func (r *Renderer) Rejected() uint64 { return r.rejected.Load() }

// Peak returns the largest absolute output of the last rendered block.
func (r *Renderer) Peak() float64 { return math.Float64frombits(r.peak.Load()) }

func (r *Renderer) applyPending() {
	for {
		c, ok := r.queue.Pop()
		if !ok {
			return
		}
		if !r.apply(c) {
			r.rejected.Add(1)
		}
	}
}

func (r *Renderer) apply(c Command) bool {
	switch c.Op {
	case OpReset:
		r.engine.Reset(c.Store)
		r.ready = c.Store != nil
		return true
	case OpSetExcitation:
		r.gen.SetMode(c.Mode)
		return true
	case OpSetSample:
		r.gen.SetSample(c.Sample)
		return true
	case OpArm:
		r.gen.Arm()
		r.gen.Hold(c.A != 0)
		return true
	case OpRelease:
		r.gen.Hold(false)
		return true
	case OpSetWaveSpeed:
		r.engine.SetWaveSpeed(c.Value)
		return true
	case OpSetDamping:
		r.engine.SetDamping(c.Value)
		return true
	}

	s := r.engine.Store()
	if s == nil {
		return false
	}
	switch c.Op {
	case OpAddNode:
		_, err := s.AddNode(c.X, c.Y)
		return err == nil
	case OpConnect:
		return s.Connect(int(c.A), int(c.B)) == nil
	case OpSetInputTap:
		return s.SetInputTap(int(c.A)) == nil
	case OpSetOutputTap:
		return s.SetOutputTap(int(c.A)) == nil
	}
	return false
}
