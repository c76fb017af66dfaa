package topology

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format selects a topology loader.
type Format int

const (
	FormatAuto Format = iota
	FormatBondList
	FormatJSON
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "pdb", "bonds", "bondlist":
		return FormatBondList, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatAuto, fmt.Errorf("unknown topology format %q", s)
}

func (f Format) String() string {
	switch f {
	case FormatBondList:
		return "bondlist"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// LoadFile opens path and dispatches to the loader for format. FormatAuto
// picks JSON for a .json extension and the bond-list loader otherwise.
func LoadFile(path string, format Format, opts LoadOptions) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format == FormatAuto {
		format = FormatBondList
		if strings.EqualFold(filepath.Ext(path), ".json") {
			format = FormatJSON
		}
	}
	var s *Store
	switch format {
	case FormatJSON:
		s, err = LoadJSON(f, opts)
	default:
		s, err = LoadBondList(f, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return s, nil
}
