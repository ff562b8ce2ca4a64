package elements

import (
	"errors"
	"fmt"

	"github.com/notargets/gofoam/types"
)

var (
	// ErrMalformedTopology marks a face loop or body shell that cannot be
	// closed under any periodic translation.
	ErrMalformedTopology = errors.New("malformed topology")
	// ErrInvalidIndex marks a reference to an element that does not exist.
	ErrInvalidIndex = errors.New("invalid index")
	// ErrDegenerateGeometry marks zero length, zero area or zero volume
	// input. Calculations clamp such input to zero results.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// Unknown is used for ids that are not known where the error is raised.
const Unknown = -1

type MalformedTopologyError struct {
	BodyID    int
	FaceID    int
	EdgeIndex int
	Reason    string
}

func NewMalformedTopologyError(faceID, edgeIndex int, format string, args ...interface{}) *MalformedTopologyError {
	return &MalformedTopologyError{
		BodyID:    Unknown,
		FaceID:    faceID,
		EdgeIndex: edgeIndex,
		Reason:    fmt.Sprintf(format, args...),
	}
}

// WithBody fills in the body the error was found in.
func (e *MalformedTopologyError) WithBody(bodyID int) *MalformedTopologyError {
	e.BodyID = bodyID
	return e
}

func (e *MalformedTopologyError) Error() string {
	return fmt.Sprintf("%s: body %d, face %d, edge index %d: %s",
		ErrMalformedTopology, e.BodyID, e.FaceID, e.EdgeIndex, e.Reason)
}

func (e *MalformedTopologyError) Is(target error) bool { return target == ErrMalformedTopology }

type InvalidIndexError struct {
	Kind    types.ElementKind // element holding the reference
	ID      int
	RefKind types.ElementKind // element referenced
	Ref     int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("%s: %s %d references missing %s %d",
		ErrInvalidIndex, e.Kind, e.ID, e.RefKind, e.Ref)
}

func (e *InvalidIndexError) Is(target error) bool { return target == ErrInvalidIndex }
