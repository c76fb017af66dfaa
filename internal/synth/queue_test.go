package synth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueueRoundsUp(t *testing.T) {
	assert.Equal(t, 2, NewQueue(0).Cap())
	assert.Equal(t, 8, NewQueue(5).Cap())
	assert.Equal(t, 8, NewQueue(8).Cap())
}

func TestQueueFIFOAndFull(t *testing.T) {
	q := NewQueue(4)
	for i := 0; i < 4; i++ {
		require.True(t, q.Push(Command{Op: OpConnect, A: int32(i)}))
	}
	assert.True(t, q.Full())
	assert.False(t, q.Push(Command{Op: OpConnect, A: 99}))
	assert.Equal(t, 4, q.Len())

	for i := 0; i < 4; i++ {
		c, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, int32(i), c.A)
	}
	_, ok := q.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestQueueWrapsAround(t *testing.T) {
	q := NewQueue(2)
	for i := 0; i < 100; i++ {
		require.True(t, q.Push(Command{Op: OpSetDamping, Value: float64(i)}))
		c, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, float64(i), c.Value)
	}
}

func TestQueueConcurrentDelivery(t *testing.T) {
	const total = 20000
	q := NewQueue(64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			if q.Push(Command{Op: OpAddNode, A: int32(i)}) {
				i++
			}
		}
	}()

	next := int32(0)
	for next < total {
		c, ok := q.Pop()
		if !ok {
			continue
		}
		require.Equal(t, next, c.A)
		next++
	}
	wg.Wait()
	assert.Equal(t, 0, q.Len())
}
