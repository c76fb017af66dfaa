package synth

import (
	"sync/atomic"

	"molsynth/internal/excite"
	"molsynth/internal/topology"
)

// DefaultQueueSize is the number of edits that can be staged between two
// audio blocks.
const DefaultQueueSize = 256

// Op identifies a staged command.
type Op uint8

const (
	OpNone Op = iota
	OpAddNode
	OpConnect
	OpSetInputTap
	OpSetOutputTap
	OpSetExcitation
	OpSetWaveSpeed
	OpSetDamping
	OpArm
	OpRelease
	OpSetSample
	OpReset
)

// Command is one edit staged for the audio goroutine. Commands are plain
// values so pushing and popping never allocates.
type Command struct {
	Op     Op
	A, B   int32
	X, Y   float32
	Value  float64
	Mode   excite.Mode
	Store  *topology.Store
	Sample []float32
}

// Queue is a bounded single-producer single-consumer ring. The UI goroutine
// pushes, the audio goroutine pops; neither side blocks.
type Queue struct {
	buf  []Command
	mask uint64
	head atomic.Uint64 // next slot to pop, written by the consumer
	tail atomic.Uint64 // next slot to push, written by the producer
}

// NewQueue returns a queue holding at least size commands.
func NewQueue(size int) *Queue {
	n := 2
	for n < size {
		n <<= 1
	}
	return &Queue{buf: make([]Command, n), mask: uint64(n - 1)}
}

// Cap returns the number of slots.
func (q *Queue) Cap() int { return len(q.buf) }

// Len returns the number of staged commands.
func (q *Queue) Len() int { return int(q.tail.Load() - q.head.Load()) }

// Full reports whether Push would fail. Only the producer may rely on the
// answer staying true until its next Push.
func (q *Queue) Full() bool { return q.Len() == len(q.buf) }

// Push stages c and reports whether there was room.
func (q *Queue) Push(c Command) bool {
	t := q.tail.Load()
	if t-q.head.Load() == uint64(len(q.buf)) {
		return false
	}
	q.buf[t&q.mask] = c
	q.tail.Store(t + 1)
	return true
}

// Pop removes the oldest command.
func (q *Queue) Pop() (Command, bool) {
	h := q.head.Load()
	if h == q.tail.Load() {
		return Command{}, false
	}
	slot := &q.buf[h&q.mask]
	c := *slot
	*slot = Command{}
	q.head.Store(h + 1)
	return c, true
}
