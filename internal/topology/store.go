// Package topology holds the molecule graph: a pre-sized node arena with
// integer adjacency, the input and output taps, and loaders for bond-list
// and JSON descriptions.
package topology

import (
	"fmt"
	"math"
)

// Reference capacities of the node arena and of each neighbor list.
const (
	DefaultMaxNodes  = 10000
	DefaultMaxDegree = 300
)

// Limits bounds the size of a Store.
type Limits struct {
	MaxNodes  int
	MaxDegree int
}

// DefaultLimits returns the reference capacities.
func DefaultLimits() Limits {
	return Limits{MaxNodes: DefaultMaxNodes, MaxDegree: DefaultMaxDegree}
}

func (l Limits) validate() error {
	if l.MaxNodes < 1 || l.MaxNodes > math.MaxInt32 {
		return fmt.Errorf("topology: max nodes %d out of range", l.MaxNodes)
	}
	if l.MaxDegree < 1 {
		return fmt.Errorf("topology: max degree %d out of range", l.MaxDegree)
	}
	return nil
}

// Store is the node arena. Every node's neighbor slice is carved out of a
// single backing array with capacity MaxDegree, so growing the graph up to
// its limits never reallocates and ids stay valid forever.
type Store struct {
	limits    Limits
	nodes     []Node
	count     int
	inputTap  int
	outputTap int
}

// NewStore allocates an empty store sized for limits.
func NewStore(limits Limits) (*Store, error) {
	if err := limits.validate(); err != nil {
		return nil, err
	}
	s := &Store{
		limits: limits,
		nodes:  make([]Node, limits.MaxNodes),
	}
	backing := make([]int32, limits.MaxNodes*limits.MaxDegree)
	for i := range s.nodes {
		base := i * limits.MaxDegree
		s.nodes[i].ID = int32(i)
		s.nodes[i].Neighbors = backing[base : base : base+limits.MaxDegree]
	}
	return s, nil
}

// Limits returns the capacities the store was built with.
func (s *Store) Limits() Limits { return s.limits }

// Count returns the number of live nodes.
func (s *Store) Count() int { return s.count }

// InputTap returns the id of the node driven by the excitation.
func (s *Store) InputTap() int { return s.inputTap }

// OutputTap returns the id of the node read for audio output.
func (s *Store) OutputTap() int { return s.outputTap }

// Nodes returns the live portion of the arena. The slice aliases the store.
func (s *Store) Nodes() []Node { return s.nodes[:s.count] }

// Node returns the node with the given id.
func (s *Store) Node(id int) (*Node, error) {
	if id < 0 || id >= s.count {
		return nil, fmt.Errorf("%w: %d (count %d)", ErrInvalidNode, id, s.count)
	}
	return &s.nodes[id], nil
}

// AddNode appends a default-initialized node at the next free index.
func (s *Store) AddNode(x, y float32) (int, error) {
	if s.count >= s.limits.MaxNodes {
		return 0, fmt.Errorf("%w: node limit %d reached", ErrCapacityExceeded, s.limits.MaxNodes)
	}
	id := s.count
	n := &s.nodes[id]
	n.Neighbors = n.Neighbors[:0]
	n.reset()
	n.ScreenX, n.ScreenY = x, y
	s.count++
	return id, nil
}

// Connect adds a symmetric edge between a and b. A pair that is already
// connected is left as is.
func (s *Store) Connect(a, b int) error {
	if a < 0 || a >= s.count || b < 0 || b >= s.count {
		return fmt.Errorf("%w: edge %d-%d (count %d)", ErrInvalidNode, a, b, s.count)
	}
	if a == b {
		return fmt.Errorf("%w: self edge on %d", ErrInvalidNode, a)
	}
	na, nb := &s.nodes[a], &s.nodes[b]
	if na.hasNeighbor(int32(b)) && nb.hasNeighbor(int32(a)) {
		return nil
	}
	if len(na.Neighbors) >= s.limits.MaxDegree {
		return fmt.Errorf("%w: node %d has degree %d", ErrCapacityExceeded, a, len(na.Neighbors))
	}
	if len(nb.Neighbors) >= s.limits.MaxDegree {
		return fmt.Errorf("%w: node %d has degree %d", ErrCapacityExceeded, b, len(nb.Neighbors))
	}
	if !na.hasNeighbor(int32(b)) {
		na.Neighbors = append(na.Neighbors, int32(b))
	}
	if !nb.hasNeighbor(int32(a)) {
		nb.Neighbors = append(nb.Neighbors, int32(a))
	}
	return nil
}

// SetInputTap reassigns the excitation node.
func (s *Store) SetInputTap(id int) error {
	if id < 0 || id >= s.count {
		return fmt.Errorf("%w: input %d (count %d)", ErrInvalidTapIndex, id, s.count)
	}
	s.inputTap = id
	return nil
}

// SetOutputTap reassigns the node read for audio output.
func (s *Store) SetOutputTap(id int) error {
	if id < 0 || id >= s.count {
		return fmt.Errorf("%w: output %d (count %d)", ErrInvalidTapIndex, id, s.count)
	}
	s.outputTap = id
	return nil
}

// Nearest returns the id of the node closest to (x, y). Ties go to the
// lowest id. ok is false when the store is empty.
func (s *Store) Nearest(x, y float32) (id int, ok bool) {
	best := float32(math.MaxFloat32)
	id = -1
	for i := 0; i < s.count; i++ {
		if d := s.dist2(i, x, y); d < best {
			best, id = d, i
		}
	}
	return id, id >= 0
}

// TwoNearest returns the two distinct nodes closest to (x, y), nearest first.
// ok is false when fewer than two nodes exist.
func (s *Store) TwoNearest(x, y float32) (first, second int, ok bool) {
	if s.count < 2 {
		return -1, -1, false
	}
	d1, d2 := float32(math.MaxFloat32), float32(math.MaxFloat32)
	first, second = -1, -1
	for i := 0; i < s.count; i++ {
		d := s.dist2(i, x, y)
		switch {
		case d < d1:
			d2, second = d1, first
			d1, first = d, i
		case d < d2:
			d2, second = d, i
		}
	}
	return first, second, true
}

// Squared distances order identically to Euclidean ones.
func (s *Store) dist2(i int, x, y float32) float32 {
	dx := s.nodes[i].ScreenX - x
	dy := s.nodes[i].ScreenY - y
	return dx*dx + dy*dy
}

// Clone returns a deep copy with its own arena.
func (s *Store) Clone() *Store {
	c, _ := NewStore(s.limits)
	c.count = s.count
	c.inputTap = s.inputTap
	c.outputTap = s.outputTap
	for i := 0; i < s.count; i++ {
		src, dst := &s.nodes[i], &c.nodes[i]
		neighbors := dst.Neighbors[:len(src.Neighbors)]
		copy(neighbors, src.Neighbors)
		*dst = *src
		dst.Neighbors = neighbors
	}
	return c
}

// validate checks the load-time invariants.
func (s *Store) validate(source string) error {
	for i := 0; i < s.count; i++ {
		for _, nb := range s.nodes[i].Neighbors {
			if int(nb) < 0 || int(nb) >= s.count {
				return parseErrorf(source, i, nil, "node %d: neighbor %d outside [0, %d)", i, nb, s.count)
			}
		}
	}
	if s.inputTap < 0 || s.inputTap >= s.count {
		return fmt.Errorf("%w: input %d (count %d)", ErrInvalidTapIndex, s.inputTap, s.count)
	}
	if s.outputTap < 0 || s.outputTap >= s.count {
		return fmt.Errorf("%w: output %d (count %d)", ErrInvalidTapIndex, s.outputTap, s.count)
	}
	return nil
}
