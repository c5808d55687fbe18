package mesh

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTopology = errors.New("invalid element topology")
	ErrOutOfRangeIndex = errors.New("index out of range")
	ErrNonManifoldFace = errors.New("non-manifold face")
	ErrMalformedBlock  = errors.New("malformed element block")
	ErrTooFewNodes     = errors.New("too few nodes")
)

// NonManifoldFaceError reports a face referenced by more than two cells
type NonManifoldFaceError struct {
	Face  int
	Cells []int
}

func (e *NonManifoldFaceError) Error() string {
	return fmt.Sprintf("%s: face %d is shared by cells %v", ErrNonManifoldFace, e.Face, e.Cells)
}

func (e *NonManifoldFaceError) Unwrap() error { return ErrNonManifoldFace }
