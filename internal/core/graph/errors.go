package graph

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrParse           = errors.New("node id is not an integer")
	ErrInvalidWindow   = errors.New("focus window must not be negative")
)

// MalformedRecordError reports a record that does not supply a required field.
// Row is 1-based; 0 means the header or the input as a whole.
type MalformedRecordError struct {
	Row   int
	Field string
}

func (e *MalformedRecordError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("malformed input: missing %q column", e.Field)
	}
	return fmt.Sprintf("malformed record %d: missing %q", e.Row, e.Field)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// ParseError reports a node id that cannot be read as a base-10 integer.
type ParseError struct {
	Row int
	ID  string
	Err error
}

func (e *ParseError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("id %q is not an integer: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("record %d: node id %q is not an integer: %v", e.Row, e.ID, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
