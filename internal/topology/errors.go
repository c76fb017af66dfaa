package topology

import (
	"errors"
	"fmt"
)

// Errors reported by the store, the loaders and the editor built on top of them.
var (
	// ErrParse is matched by every *ParseError through errors.Is.
	ErrParse = errors.New("topology: parse error")

	// ErrCapacityExceeded indicates the node arena or a node's neighbor list is full.
	ErrCapacityExceeded = errors.New("topology: capacity exceeded")

	// ErrInvalidTapIndex indicates an input or output tap outside [0, Count).
	ErrInvalidTapIndex = errors.New("topology: invalid tap index")

	// ErrInvalidNode indicates a node id outside [0, Count) or a self edge.
	ErrInvalidNode = errors.New("topology: invalid node")
)

// ParseError describes malformed or out-of-range topology input. Line is the
// 1-based input line for bond lists and the 0-based record index for JSON.
type ParseError struct {
	Source string
	Line   int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("topology: %s line %d: %s", e.Source, e.Line, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func parseErrorf(source string, line int, cause error, format string, args ...any) *ParseError {
	return &ParseError{Source: source, Line: line, Msg: fmt.Sprintf(format, args...), Err: cause}
}
