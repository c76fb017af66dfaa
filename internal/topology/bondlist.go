package topology

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// BondMarker identifies connectivity records in a bond list (PDB CONECT).
const BondMarker = "CONECT"

// LoadOptions configures a load: the arena capacities and the taps to
// install once the nodes are known.
type LoadOptions struct {
	Limits    Limits
	InputTap  int
	OutputTap int
}

// LoadBondList builds a Store from PDB-style connectivity records. Every
// record counts as one node even when its origin was already seen, so a
// molecule listing an atom twice reports a larger Count than it has atoms.
// Out-of-range indices are rejected before the store is returned.
func LoadBondList(r io.Reader, opts LoadOptions) (*Store, error) {
	const source = "bond list"
	s, err := NewStore(opts.Limits)
	if err != nil {
		return nil, err
	}
	touched := make([]bool, opts.Limits.MaxNodes)

	// Highest index referenced so far and the line it first appeared on.
	maxRef, maxRefLine := -1, 0

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || !strings.Contains(fields[0], BondMarker) {
			continue
		}
		if len(fields) < 2 {
			return nil, parseErrorf(source, line, nil, "record without origin")
		}
		origin, err := parseIndex(fields[1])
		if err != nil {
			return nil, parseErrorf(source, line, err, "origin %q", fields[1])
		}
		if origin >= opts.Limits.MaxNodes {
			return nil, parseErrorf(source, line, ErrCapacityExceeded, "origin %d beyond node limit %d", origin+1, opts.Limits.MaxNodes)
		}
		if s.count >= opts.Limits.MaxNodes {
			return nil, parseErrorf(source, line, ErrCapacityExceeded, "more than %d records", opts.Limits.MaxNodes)
		}
		if origin > maxRef {
			maxRef, maxRefLine = origin, line
		}

		n := &s.nodes[origin]
		n.reset()
		touched[origin] = true
		for _, tok := range fields[2:] {
			bonded, err := parseIndex(tok)
			if err != nil {
				return nil, parseErrorf(source, line, err, "bonded index %q", tok)
			}
			if len(n.Neighbors) >= opts.Limits.MaxDegree {
				return nil, parseErrorf(source, line, ErrCapacityExceeded, "node %d exceeds degree %d", origin+1, opts.Limits.MaxDegree)
			}
			if bonded > maxRef {
				maxRef, maxRefLine = bonded, line
			}
			n.Neighbors = append(n.Neighbors, int32(bonded))
		}
		s.count++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading bond list: %w", err)
	}
	if s.count == 0 {
		return nil, parseErrorf(source, line, nil, "no %s records", BondMarker)
	}
	if maxRef >= s.count {
		return nil, parseErrorf(source, maxRefLine, nil, "index %d outside the %d declared nodes", maxRef+1, s.count)
	}

	// Atoms that are only ever referenced as bond targets still get the
	// default physical state.
	for i := 0; i < s.count; i++ {
		if !touched[i] {
			s.nodes[i].reset()
		}
	}
	s.inputTap, s.outputTap = opts.InputTap, opts.OutputTap
	if err := s.validate(source); err != nil {
		return nil, err
	}
	return s, nil
}

// parseIndex converts a 1-based index token to a 0-based id.
func parseIndex(tok string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, fmt.Errorf("index %d is not 1-based", v)
	}
	return v - 1, nil
}
