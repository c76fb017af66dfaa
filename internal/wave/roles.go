package wave

// Roles maps the previous, current and next instants onto the three history
// slots every node carries. All nodes step in lock-step, so one triple serves
// the whole graph.
type Roles struct {
	Prev, Cur, Next uint8
}

func initialRoles() Roles { return Roles{Prev: 0, Cur: 1, Next: 2} }

// rotate makes next the current slot and recycles the oldest slot as next.
func (r *Roles) rotate() {
	r.Prev, r.Cur, r.Next = r.Cur, r.Next, r.Prev
}

// Valid reports whether the triple is a permutation of {0, 1, 2}.
func (r Roles) Valid() bool {
	if r.Prev > 2 || r.Cur > 2 || r.Next > 2 {
		return false
	}
	return r.Prev != r.Cur && r.Cur != r.Next && r.Prev != r.Next
}
