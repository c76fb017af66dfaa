// Package wave integrates the scalar wave equation over a molecule graph.
//
// Each node carries three history slots. One call to Step advances every
// node by one sample with the explicit leapfrog scheme
//
//	next = (c²·L(cur) − 2γ·(cur − prev)/dt)·dt² + 2·cur − prev
//
// where L is the graph Laplacian (Σ neighbors − degree·self) divided by dx².
// Memory per node stays constant for any run length.
//
// The scheme is only stable while the Courant number c·dt/dx stays at or
// below 1. The engine does not clamp parameters; callers check Courant.
package wave

import (
	"errors"
	"fmt"

	"molsynth/internal/topology"
)

// Reference simulation constants.
const (
	DefaultWaveSpeed   = 0.015
	DefaultDamping     = 0.0001
	DefaultSpatialStep = 0.00001
	DefaultSampleRate  = 48000
)

// Params are the physical constants of the recurrence.
type Params struct {
	WaveSpeed   float64
	Damping     float64
	SpatialStep float64
	SampleRate  int
}

// DefaultParams returns the reference constants.
func DefaultParams() Params {
	return Params{
		WaveSpeed:   DefaultWaveSpeed,
		Damping:     DefaultDamping,
		SpatialStep: DefaultSpatialStep,
		SampleRate:  DefaultSampleRate,
	}
}

// Validate rejects constants that make the recurrence undefined.
func (p Params) Validate() error {
	if p.SampleRate <= 0 {
		return fmt.Errorf("wave: sample rate %d must be positive", p.SampleRate)
	}
	if p.SpatialStep <= 0 {
		return fmt.Errorf("wave: spatial step %g must be positive", p.SpatialStep)
	}
	if p.Damping < 0 {
		return errors.New("wave: damping must not be negative")
	}
	return nil
}

// TimeStep returns 1/SampleRate.
func (p Params) TimeStep() float64 { return 1 / float64(p.SampleRate) }

// Courant returns c·dt/dx. Values above 1 make the scheme blow up.
func (p Params) Courant() float64 {
	return p.WaveSpeed * p.TimeStep() / p.SpatialStep
}

// Engine advances a topology.Store sample by sample. It is owned by a single
// goroutine; Step neither allocates nor locks.
type Engine struct {
	store  *topology.Store
	roles  Roles
	params Params

	// Derived from params on every change.
	dt      float64
	dt2     float64
	invDx2  float64
	speed2  float64
	damping float64
}

// NewEngine returns an engine with no store installed.
func NewEngine(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{roles: initialRoles()}
	e.setParams(p)
	return e, nil
}

func (e *Engine) setParams(p Params) {
	e.params = p
	e.dt = p.TimeStep()
	e.dt2 = e.dt * e.dt
	e.invDx2 = 1 / (p.SpatialStep * p.SpatialStep)
	e.speed2 = p.WaveSpeed * p.WaveSpeed
	e.damping = p.Damping
}

// Reset installs store and restarts the role triple. A nil store detaches
// the engine.
func (e *Engine) Reset(store *topology.Store) {
	e.store = store
	e.roles = initialRoles()
}

// Store returns the installed store, or nil.
func (e *Engine) Store() *topology.Store { return e.store }

// Params returns the constants in use.
func (e *Engine) Params() Params { return e.params }

// Roles returns the current slot assignment.
func (e *Engine) Roles() Roles { return e.roles }

// Courant returns the stability number for the current parameters.
func (e *Engine) Courant() float64 { return e.params.Courant() }

// SetWaveSpeed replaces the wave speed c.
func (e *Engine) SetWaveSpeed(c float64) {
	p := e.params
	p.WaveSpeed = c
	e.setParams(p)
}

// SetDamping replaces the damping coefficient γ.
func (e *Engine) SetDamping(g float64) {
	if g < 0 {
		g = 0
	}
	p := e.params
	p.Damping = g
	e.setParams(p)
}

// Step advances every node except node 0, which stays fixed as an anchor.
// When driven is true the input tap takes the value drive instead of its
// computed dynamics. The return value is the new value at the output tap.
func (e *Engine) Step(drive float64, driven bool) float64 {
	if e.store == nil {
		return 0
	}
	nodes := e.store.Nodes()
	input := e.store.InputTap()
	output := e.store.OutputTap()
	prev, cur, next := e.roles.Prev, e.roles.Cur, e.roles.Next

	var out float64
	for i := 1; i < len(nodes); i++ {
		n := &nodes[i]
		self := n.History[cur]
		old := n.History[prev]

		var sum float64
		for _, nb := range n.Neighbors {
			sum += nodes[nb].History[cur]
		}
		lap := (sum - float64(len(n.Neighbors))*self) * e.invDx2
		acc := e.speed2*lap - 2*e.damping*(self-old)/e.dt
		v := acc*e.dt2 + 2*self - old

		if driven && i == input {
			v = drive
		}
		n.History[next] = v
		if i == output {
			out = v
		}
	}
	e.roles.rotate()
	return out
}

// Current returns the latest value of node id, or 0 when it does not exist.
func (e *Engine) Current(id int) float64 {
	if e.store == nil || id < 0 || id >= e.store.Count() {
		return 0
	}
	// After rotate the freshly written slot is Cur.
	return e.store.Nodes()[id].History[e.roles.Cur]
}
