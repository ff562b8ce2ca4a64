// Package elements is the element model of a foam time step: vertices,
// edges, faces and bodies, plus the oriented wrappers that let a shared
// edge or face be traversed in either direction.
//
// Elements read from the input are ORIGINAL. Unwrapping a periodic foam
// creates DUPLICATE elements, each remembers its original (Root) and the
// integer translation separating it from that original. Adjacency used for
// neighbor lookups is always registered on the original.
package elements

import (
	"fmt"

	"github.com/notargets/gofoam/geometry3D"
	"github.com/notargets/gofoam/types"
	"gonum.org/v1/gonum/spatial/r3"
)

type Vertex struct {
	id            int
	position      r3.Vec
	attributes    Attributes
	status        types.DuplicateStatus
	original      *Vertex
	translation   geometry3D.Translation
	adjacentEdges []*Edge
}

func NewVertex(id int, position r3.Vec, attributes Attributes) *Vertex {
	return &Vertex{
		id:         id,
		position:   position,
		attributes: attributes,
	}
}

// NewDuplicate creates the image of the receiver's original at position,
// which is the original translated by t.
func (v *Vertex) NewDuplicate(t geometry3D.Translation, position r3.Vec) *Vertex {
	root := v.Root()
	return &Vertex{
		id:          root.id,
		position:    position,
		attributes:  root.attributes.Copy(),
		status:      types.Duplicate,
		original:    root,
		translation: t,
	}
}

func (v *Vertex) ID() int                             { return v.id }
func (v *Vertex) Position() r3.Vec                    { return v.position }
func (v *Vertex) Attributes() Attributes              { return v.attributes }
func (v *Vertex) Status() types.DuplicateStatus       { return v.status }
func (v *Vertex) IsDuplicate() bool                   { return v.status == types.Duplicate }
func (v *Vertex) Translation() geometry3D.Translation { return v.translation }

// Root returns the original vertex, the receiver itself if it is one.
func (v *Vertex) Root() *Vertex {
	if v.original != nil {
		return v.original
	}
	return v
}

// AddAdjacentEdge registers e (by its original) as incident to the
// original of v.
func (v *Vertex) AddAdjacentEdge(e *Edge) {
	root, re := v.Root(), e.Root()
	for _, existing := range root.adjacentEdges {
		if existing == re {
			return
		}
	}
	root.adjacentEdges = append(root.adjacentEdges, re)
}

func (v *Vertex) AdjacentEdges() []*Edge { return v.Root().adjacentEdges }

// IsPhysical separates Plateau border junctions from tessellation
// vertices. In 3D a vertex is physical if exactly 4 physical edges meet at
// it, in 2D if at least 3 edges do.
func (v *Vertex) IsPhysical(is2D bool) bool {
	edges := v.AdjacentEdges()
	if is2D {
		return len(edges) >= 3
	}
	var count int
	for _, e := range edges {
		if e.IsPhysical(false) {
			count++
		}
	}
	return count == 4
}

func (v *Vertex) String() string {
	return fmt.Sprintf("Vertex{%d %s (%g,%g,%g)}", v.id, v.status,
		v.position.X, v.position.Y, v.position.Z)
}
