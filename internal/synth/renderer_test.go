package synth

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molsynth/internal/excite"
	"molsynth/internal/topology"
	"molsynth/internal/wave"
)

type rig struct {
	engine   *wave.Engine
	gen      *excite.Generator
	queue    *Queue
	renderer *Renderer
}

func newRig(t *testing.T) *rig {
	t.Helper()
	p := wave.Params{WaveSpeed: 1, Damping: 0, SpatialStep: 2.0 / 48000, SampleRate: 48000}
	e, err := wave.NewEngine(p)
	require.NoError(t, err)
	g, err := excite.NewGenerator(4)
	require.NoError(t, err)
	q := NewQueue(16)
	return &rig{engine: e, gen: g, queue: q, renderer: NewRenderer(e, g, q)}
}

// chain builds 0-1-2 with input 1 and output 2.
func chain(t *testing.T) *topology.Store {
	t.Helper()
	s, err := topology.NewStore(topology.Limits{MaxNodes: 8, MaxDegree: 4})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := s.AddNode(float32(10*i), 0)
		require.NoError(t, err)
	}
	require.NoError(t, s.Connect(0, 1))
	require.NoError(t, s.Connect(1, 2))
	require.NoError(t, s.SetInputTap(1))
	require.NoError(t, s.SetOutputTap(2))
	return s
}

func TestRenderNotReadyIsSilent(t *testing.T) {
	r := newRig(t)
	buf := []float32{1, 2, 3, 4, 5}
	err := r.renderer.Render(buf)
	require.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, []float32{0, 0, 0, 0, 0}, buf)
	assert.False(t, r.renderer.Ready())
}

func TestRenderAfterResetProducesIdenticalChannels(t *testing.T) {
	r := newRig(t)
	require.True(t, r.queue.Push(Command{Op: OpReset, Store: chain(t)}))
	require.True(t, r.queue.Push(Command{Op: OpSetExcitation, Mode: excite.Sawtooth}))
	require.True(t, r.queue.Push(Command{Op: OpArm}))

	buf := make([]float32, 64)
	require.NoError(t, r.renderer.Render(buf))
	assert.True(t, r.renderer.Ready())

	var nonZero bool
	for i := 0; i < len(buf); i += 2 {
		require.Equal(t, buf[i], buf[i+1], "frame %d", i/2)
		nonZero = nonZero || buf[i] != 0
	}
	assert.True(t, nonZero)
	assert.Greater(t, r.renderer.Peak(), 0.0)
}

func TestCommandsApplyAtBlockBoundary(t *testing.T) {
	r := newRig(t)
	s := chain(t)
	require.True(t, r.queue.Push(Command{Op: OpReset, Store: s}))
	buf := make([]float32, 8)
	require.NoError(t, r.renderer.Render(buf))

	require.True(t, r.queue.Push(Command{Op: OpAddNode, X: 1, Y: 2}))
	require.True(t, r.queue.Push(Command{Op: OpConnect, A: 2, B: 3}))
	require.True(t, r.queue.Push(Command{Op: OpSetOutputTap, A: 3}))
	assert.Equal(t, 3, s.Count(), "staged edits wait for the next block")

	require.NoError(t, r.renderer.Render(buf))
	assert.Equal(t, 4, s.Count())
	assert.Equal(t, 3, s.OutputTap())
	assert.Equal(t, []int32{1, 3}, s.Nodes()[2].Neighbors)
	assert.Equal(t, uint64(0), r.renderer.Rejected())
}

func TestRejectedCommandsAreCounted(t *testing.T) {
	r := newRig(t)
	require.True(t, r.queue.Push(Command{Op: OpConnect, A: 0, B: 1}))
	require.ErrorIs(t, r.renderer.Render(make([]float32, 2)), ErrNotReady)
	assert.Equal(t, uint64(1), r.renderer.Rejected())

	require.True(t, r.queue.Push(Command{Op: OpReset, Store: chain(t)}))
	require.True(t, r.queue.Push(Command{Op: OpSetInputTap, A: 7}))
	require.NoError(t, r.renderer.Render(make([]float32, 2)))
	assert.Equal(t, uint64(2), r.renderer.Rejected())
}

func TestParameterCommands(t *testing.T) {
	r := newRig(t)
	require.True(t, r.queue.Push(Command{Op: OpSetWaveSpeed, Value: 0.25}))
	require.True(t, r.queue.Push(Command{Op: OpSetDamping, Value: 0.5}))
	require.True(t, r.queue.Push(Command{Op: OpSetSample, Sample: []float32{0.5}}))
	_ = r.renderer.Render(nil)
	assert.Equal(t, 0.25, r.engine.Params().WaveSpeed)
	assert.Equal(t, 0.5, r.engine.Params().Damping)
}

func TestArmAndRelease(t *testing.T) {
	r := newRig(t)
	require.True(t, r.queue.Push(Command{Op: OpReset, Store: chain(t)}))
	require.True(t, r.queue.Push(Command{Op: OpSetExcitation, Mode: excite.Sawtooth}))
	require.True(t, r.queue.Push(Command{Op: OpArm, A: 1}))
	require.NoError(t, r.renderer.Render(make([]float32, 2*10)))
	assert.True(t, r.gen.Armed(), "held sawtooth keeps cycling")

	require.True(t, r.queue.Push(Command{Op: OpRelease}))
	require.NoError(t, r.renderer.Render(make([]float32, 2*10)))
	assert.False(t, r.gen.Armed())
}

func TestStreamWritesPCMFrames(t *testing.T) {
	r := newRig(t)
	s := chain(t)
	s.Nodes()[2].History = [3]float64{0.5, 0.5, 0.5}
	require.True(t, r.queue.Push(Command{Op: OpReset, Store: s}))
	require.True(t, r.queue.Push(Command{Op: OpSetWaveSpeed, Value: 0}))

	st := NewStream(r.renderer, 3, 1, false)
	p := make([]byte, 4*7+2)
	n, err := st.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 4*7, n)
	for off := 0; off < n; off += 4 {
		left := int16(binary.LittleEndian.Uint16(p[off:]))
		right := int16(binary.LittleEndian.Uint16(p[off+2:]))
		assert.Equal(t, int16(16383), left)
		assert.Equal(t, left, right)
	}
}

func TestStreamSilenceAndClipping(t *testing.T) {
	r := newRig(t)
	st := NewStream(r.renderer, 4, 1, false)
	p := make([]byte, 16)
	n, err := st.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, make([]byte, 16), p)

	n, err = st.Read(make([]byte, 3))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, float32(1), clip(3))
	assert.Equal(t, float32(-1), clip(-3))
	assert.Equal(t, float32(0), st.shape(0))
}

func TestStreamDCBlockRemovesOffset(t *testing.T) {
	r := newRig(t)
	st := NewStream(r.renderer, 4, 1, true)
	var v float32
	for i := 0; i < 20000; i++ {
		v = st.shape(0.5)
	}
	assert.InDelta(t, 0, v, 1e-3)
}
