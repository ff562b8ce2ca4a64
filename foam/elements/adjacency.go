package elements

import (
	"fmt"

	"github.com/notargets/gofoam/geometry3D"
	"gonum.org/v1/gonum/spatial/r3"
)

// AdjacentBody records that Body uses a face at oriented face slot Slot,
// through the image of the face translated by Translation. It is a lookup
// entry only, bodies own their faces.
type AdjacentBody struct {
	Body        *Body
	Slot        int
	Translation geometry3D.Translation
}

// AdjacentOrientedFace records that edge EdgeIndex of oriented face Slot of
// Body runs along an edge, through the image of the edge translated by
// Translation.
type AdjacentOrientedFace struct {
	Face        *Face
	Body        *Body
	Slot        int
	EdgeIndex   int
	Translation geometry3D.Translation
}

// Neighbor is either another body (possibly across a periodic boundary,
// then Translation is the number of cells to move the neighbor by) or, for
// a face or edge no other body touches, the reflection of the body center
// across that face or edge.
type Neighbor struct {
	Body         *Body
	Translation  geometry3D.Translation
	IsReflection bool
	Reflection   r3.Vec
	Contact      float64 // shared area in 3D, shared length in 2D
}

func (n Neighbor) String() string {
	if n.IsReflection {
		return fmt.Sprintf("Neighbor{reflection (%g,%g,%g)}", n.Reflection.X, n.Reflection.Y, n.Reflection.Z)
	}
	return fmt.Sprintf("Neighbor{body %d t%v contact %g}", n.Body.ID(), n.Translation, n.Contact)
}
