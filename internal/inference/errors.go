package inference

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is wrapped when a data row has more fields than the header.
var ErrShapeMismatch = errors.New("row has more fields than header")

// ShapeError describes the offending row. Row is 1-based over data rows.
type ShapeError struct {
	Row     uint64
	Fields  int
	Columns int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("data row %d: %d fields, header has %d: %v", e.Row, e.Fields, e.Columns, ErrShapeMismatch)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }
