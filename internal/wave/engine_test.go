package wave

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molsynth/internal/topology"
)

func newEngine(t *testing.T, p Params) *Engine {
	t.Helper()
	e, err := NewEngine(p)
	require.NoError(t, err)
	return e
}

// twoNodeStore connects node 0 and node 1 and taps node 1 for both input and output.
func twoNodeStore(t *testing.T) *topology.Store {
	t.Helper()
	s, err := topology.NewStore(topology.Limits{MaxNodes: 2, MaxDegree: 2})
	require.NoError(t, err)
	_, err = s.AddNode(0, 0)
	require.NoError(t, err)
	_, err = s.AddNode(1, 0)
	require.NoError(t, err)
	require.NoError(t, s.Connect(0, 1))
	require.NoError(t, s.SetInputTap(1))
	require.NoError(t, s.SetOutputTap(1))
	for i := range s.Nodes() {
		s.Nodes()[i].History = [3]float64{}
	}
	return s
}

// oscillatorParams puts the Courant number at 0.5.
func oscillatorParams(damping float64) Params {
	return Params{
		WaveSpeed:   1,
		Damping:     damping,
		SpatialStep: 2.0 / 48000,
		SampleRate:  48000,
	}
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.SampleRate = 0
	require.Error(t, p.Validate())

	p = DefaultParams()
	p.SpatialStep = 0
	require.Error(t, p.Validate())

	p = DefaultParams()
	p.Damping = -1
	require.Error(t, p.Validate())
}

func TestCourant(t *testing.T) {
	assert.InDelta(t, 0.5, oscillatorParams(0).Courant(), 1e-12)
	assert.Less(t, DefaultParams().Courant(), 1.0)
}

func TestStepWithoutStoreIsSilent(t *testing.T) {
	e := newEngine(t, DefaultParams())
	assert.Equal(t, 0.0, e.Step(1, true))
	assert.Equal(t, 0.0, e.Current(0))
}

func TestRolesStayPermutation(t *testing.T) {
	e := newEngine(t, oscillatorParams(0))
	e.Reset(twoNodeStore(t))
	seen := map[Roles]bool{}
	for i := 0; i < 1000; i++ {
		e.Step(0, false)
		r := e.Roles()
		require.True(t, r.Valid(), "step %d: %+v", i, r)
		seen[r] = true
	}
	// Rotation cycles through exactly three assignments.
	assert.Len(t, seen, 3)
}

func TestRolesValid(t *testing.T) {
	assert.True(t, Roles{2, 0, 1}.Valid())
	assert.False(t, Roles{0, 0, 1}.Valid())
	assert.False(t, Roles{0, 1, 3}.Valid())
}

func TestZeroSpeedKeepsSeed(t *testing.T) {
	const doc = `{"molecule": [
		{"connections": [1], "mass": 1},
		{"connections": [0, 2], "mass": 1},
		{"connections": [1], "mass": 1}
	]}`
	s, err := topology.LoadJSON(strings.NewReader(doc), topology.LoadOptions{
		Limits:    topology.Limits{MaxNodes: 4, MaxDegree: 4},
		InputTap:  1,
		OutputTap: 1,
	})
	require.NoError(t, err)

	p := DefaultParams()
	p.WaveSpeed = 0
	p.Damping = 0
	e := newEngine(t, p)
	e.Reset(s)
	for i := 0; i < 10000; i++ {
		require.InDelta(t, topology.SeedValue, e.Step(0, false), 1e-12, "step %d", i)
	}
	assert.InDelta(t, 0.0, e.Current(2), 1e-12)
}

func impulseResponse(t *testing.T, damping float64, steps int) []float64 {
	t.Helper()
	e := newEngine(t, oscillatorParams(damping))
	e.Reset(twoNodeStore(t))
	out := make([]float64, 0, steps)
	out = append(out, e.Step(1, true))
	for i := 1; i < steps; i++ {
		out = append(out, e.Step(0, false))
	}
	return out
}

func maxAbs(xs []float64) float64 {
	var m float64
	for _, x := range xs {
		m = math.Max(m, math.Abs(x))
	}
	return m
}

func TestImpulseResponseDecaysWithDamping(t *testing.T) {
	out := impulseResponse(t, 480, 5000)
	assert.Equal(t, 1.0, out[0])
	assert.Greater(t, maxAbs(out[1:50]), 0.5)
	assert.Less(t, maxAbs(out[len(out)-200:]), 1e-6)
}

func TestImpulseResponseSustainsWithoutDamping(t *testing.T) {
	out := impulseResponse(t, 0, 20000)
	tail := maxAbs(out[len(out)-1000:])
	assert.Greater(t, tail, 1.0)
	assert.Less(t, tail, 3.0)
}

func TestNodeZeroIsAnchor(t *testing.T) {
	s := twoNodeStore(t)
	anchor, err := s.Node(0)
	require.NoError(t, err)
	anchor.History = [3]float64{0.5, 0.5, 0.5}

	e := newEngine(t, oscillatorParams(0))
	e.Reset(s)
	for i := 0; i < 100; i++ {
		e.Step(0, false)
	}
	assert.Equal(t, [3]float64{0.5, 0.5, 0.5}, anchor.History)
	assert.NotEqual(t, 0.0, e.Current(1))
}

func TestDriveReplacesDynamics(t *testing.T) {
	s, err := topology.NewStore(topology.Limits{MaxNodes: 3, MaxDegree: 2})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = s.AddNode(float32(i), 0)
		require.NoError(t, err)
		s.Nodes()[i].History = [3]float64{}
	}
	require.NoError(t, s.Connect(0, 1))
	require.NoError(t, s.Connect(1, 2))
	require.NoError(t, s.SetInputTap(1))
	require.NoError(t, s.SetOutputTap(2))

	e := newEngine(t, oscillatorParams(0))
	e.Reset(s)
	for i := 0; i < 10; i++ {
		e.Step(0.25, true)
		require.Equal(t, 0.25, e.Current(1))
	}
	assert.NotEqual(t, 0.0, e.Current(2))
}

func TestSetters(t *testing.T) {
	e := newEngine(t, DefaultParams())
	e.SetWaveSpeed(0.5)
	e.SetDamping(-3)
	assert.Equal(t, 0.5, e.Params().WaveSpeed)
	assert.Equal(t, 0.0, e.Params().Damping)
	assert.InDelta(t, 0.5/48000/DefaultSpatialStep, e.Courant(), 1e-12)
}
