package topology

// Default physical state assigned to freshly loaded or created nodes.
const (
	DefaultMass     = 2.0
	DefaultPosition = 0.01
	SeedValue       = 0.2
)

// Node is one mass point of the molecule graph. History holds the scalar
// field at three consecutive instants; which slot is previous, current or
// next is decided by the wave engine's role triple, not by the index.
type Node struct {
	ID        int32
	Mass      float64
	Neighbors []int32
	History   [3]float64

	// Position, Velocity and Acceleration are carried for a future x/y/z
	// model and are never advanced by the scalar recurrence.
	Position     [3]float64
	Velocity     [3]float64
	Acceleration [3]float64

	// ScreenX and ScreenY only feed nearest-node lookups.
	ScreenX float32
	ScreenY float32
}

// Degree returns the number of neighbor entries, duplicates included.
func (n *Node) Degree() int { return len(n.Neighbors) }

// reset restores the default physical state without touching the neighbor
// list or the screen coordinates.
func (n *Node) reset() {
	n.Mass = DefaultMass
	n.History = [3]float64{}
	n.Velocity = [3]float64{}
	n.Acceleration = [3]float64{}
	n.Position = [3]float64{DefaultPosition, DefaultPosition, DefaultPosition}
}

// seed applies the initial perturbation used on the input tap after a JSON load.
func (n *Node) seed(v float64) {
	n.History = [3]float64{v, v, v}
	n.Position = [3]float64{v, v, v}
}

// hasNeighbor reports whether id already appears in the neighbor list.
func (n *Node) hasNeighbor(id int32) bool {
	for _, nb := range n.Neighbors {
		if nb == id {
			return true
		}
	}
	return false
}
