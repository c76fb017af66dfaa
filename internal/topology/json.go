package topology

import (
	"encoding/json"
	"io"
)

type jsonTopology struct {
	Molecule []jsonNode `json:"molecule"`
}

type jsonNode struct {
	Connections []int    `json:"connections"`
	Mass        *float64 `json:"mass"`
	X           float32  `json:"x"`
	Y           float32  `json:"y"`
}

// LoadJSON builds a Store from {"molecule": [{"connections": [...], "mass": m}, ...]}.
// Array position is the node id. The node at opts.InputTap is seeded with
// SeedValue so the graph starts with energy in it.
func LoadJSON(r io.Reader, opts LoadOptions) (*Store, error) {
	const source = "json"
	var doc jsonTopology
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, parseErrorf(source, 0, err, "decoding document")
	}
	count := len(doc.Molecule)
	if count == 0 {
		return nil, parseErrorf(source, 0, nil, "molecule has no nodes")
	}
	if count > opts.Limits.MaxNodes {
		return nil, parseErrorf(source, count-1, ErrCapacityExceeded, "%d nodes exceed limit %d", count, opts.Limits.MaxNodes)
	}
	s, err := NewStore(opts.Limits)
	if err != nil {
		return nil, err
	}
	for i, rec := range doc.Molecule {
		if rec.Mass == nil {
			return nil, parseErrorf(source, i, nil, "node %d has no mass", i)
		}
		if len(rec.Connections) > opts.Limits.MaxDegree {
			return nil, parseErrorf(source, i, ErrCapacityExceeded, "node %d has %d connections, limit %d", i, len(rec.Connections), opts.Limits.MaxDegree)
		}
		n := &s.nodes[i]
		n.reset()
		n.Mass = *rec.Mass
		n.ScreenX, n.ScreenY = rec.X, rec.Y
		for _, c := range rec.Connections {
			if c < 0 || c >= count {
				return nil, parseErrorf(source, i, nil, "node %d: connection %d outside [0, %d)", i, c, count)
			}
			n.Neighbors = append(n.Neighbors, int32(c))
		}
	}
	s.count = count
	s.inputTap, s.outputTap = opts.InputTap, opts.OutputTap
	if err := s.validate(source); err != nil {
		return nil, err
	}
	s.nodes[s.inputTap].seed(SeedValue)
	return s, nil
}
