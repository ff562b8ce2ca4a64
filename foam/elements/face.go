package elements

import (
	"fmt"
	"math"

	"github.com/notargets/gofoam/geometry3D"
	"github.com/notargets/gofoam/types"
	"gonum.org/v1/gonum/spatial/r3"
)

/*
Face is a loop of oriented edges. Consecutive edges share a vertex and the loop is closed once the
face has been unwrapped; while parsed, a face may be open across a periodic seam.
*/
type Face struct {
	id          int
	edges       []OrientedEdge
	attributes  Attributes
	status      types.DuplicateStatus
	original    *Face
	translation geometry3D.Translation

	geometryValid bool
	normal        r3.Vec
	centroid      r3.Vec
	area          float64
	perimeter     float64

	adjacentBodies []AdjacentBody
}

func NewFace(id int, edges []OrientedEdge, attributes Attributes) *Face {
	return &Face{
		id:         id,
		edges:      edges,
		attributes: attributes,
	}
}

// NewDuplicate creates the image of the receiver's original translated by
// t, made of the given (already translated) edges.
func (f *Face) NewDuplicate(t geometry3D.Translation, edges []OrientedEdge) *Face {
	root := f.Root()
	return &Face{
		id:          root.id,
		edges:       edges,
		attributes:  root.attributes.Copy(),
		status:      types.Duplicate,
		original:    root,
		translation: t,
	}
}

func (f *Face) ID() int                             { return f.id }
func (f *Face) Attributes() Attributes              { return f.attributes }
func (f *Face) Status() types.DuplicateStatus       { return f.status }
func (f *Face) IsDuplicate() bool                   { return f.status == types.Duplicate }
func (f *Face) Translation() geometry3D.Translation { return f.translation }
func (f *Face) EdgeCount() int                      { return len(f.edges) }
func (f *Face) OrientedEdge(i int) OrientedEdge     { return f.edges[i] }

func (f *Face) Root() *Face {
	if f.original != nil {
		return f.original
	}
	return f
}

// OrientedEdges returns the edge loop, the slice must not be modified.
func (f *Face) OrientedEdges() []OrientedEdge { return f.edges }

// ReplaceEdges swaps in a new edge loop, used when the face is unwrapped in
// place. Cached geometry is recomputed on next use.
func (f *Face) ReplaceEdges(edges []OrientedEdge) {
	f.edges = edges
	f.geometryValid = false
}

// FirstBegin is the position the edge loop starts at.
func (f *Face) FirstBegin() r3.Vec { return f.edges[0].BeginPosition() }

// Gap returns the index i of the first edge whose end does not meet the
// begin of edge i+1 (mod n), or -1 if the loop is closed within tol.
func (f *Face) Gap(tol float64) int {
	n := len(f.edges)
	for i := 0; i < n; i++ {
		if !geometry3D.FuzzyEqual(f.edges[i].EndPosition(), f.edges[(i+1)%n].BeginPosition(), tol) {
			return i
		}
	}
	return -1
}

func (f *Face) IsClosed(tol float64) bool { return f.Gap(tol) < 0 }

// Vertices returns the begin vertex of every edge, in loop order.
func (f *Face) Vertices() []*Vertex {
	vs := make([]*Vertex, len(f.edges))
	for i, oe := range f.edges {
		vs[i] = oe.Begin()
	}
	return vs
}

// Points returns the polygon through every interpolation point of the loop,
// without repeating shared end points.
func (f *Face) Points() []r3.Vec {
	return loopPoints(f.edges, false)
}

func loopPoints(edges []OrientedEdge, reversed bool) (pts []r3.Vec) {
	n := len(edges)
	for k := 0; k < n; k++ {
		var oe OrientedEdge
		if reversed {
			oe = edges[n-1-k].Reverse()
		} else {
			oe = edges[k]
		}
		for i := 0; i < oe.PointCount()-1; i++ {
			pts = append(pts, oe.Point(i))
		}
	}
	return
}

// CalculateCentroidAndArea fan-triangulates the face from the average of its
// points. The normal is the unit sum of the triangle area vectors (zero for
// a degenerate face), the area the sum of triangle areas.
func (f *Face) CalculateCentroidAndArea() {
	pts := f.Points()
	f.normal, f.centroid, f.area = r3.Vec{}, geometry3D.Centroid(pts), 0
	if len(pts) < 3 {
		return
	}
	var (
		c0       = f.centroid
		weighted r3.Vec
		sum      r3.Vec
	)
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		av := r3.Scale(0.5, r3.Cross(r3.Sub(a, c0), r3.Sub(b, c0)))
		ta := r3.Norm(av)
		sum = r3.Add(sum, av)
		f.area += ta
		triCentroid := r3.Scale(1./3., r3.Add(c0, r3.Add(a, b)))
		weighted = r3.Add(weighted, r3.Scale(ta, triCentroid))
	}
	if f.area > 0 {
		f.centroid = r3.Scale(1/f.area, weighted)
	}
	if n := r3.Norm(sum); n > 0 && !math.IsNaN(n) {
		f.normal = r3.Scale(1/n, sum)
	}
}

func (f *Face) CalculatePerimeter() {
	f.perimeter = 0
	for _, oe := range f.edges {
		f.perimeter += oe.Length()
	}
}

func (f *Face) updateGeometry() {
	if f.geometryValid {
		return
	}
	f.CalculateCentroidAndArea()
	f.CalculatePerimeter()
	f.geometryValid = true
}

func (f *Face) Normal() r3.Vec     { f.updateGeometry(); return f.normal }
func (f *Face) Centroid() r3.Vec   { f.updateGeometry(); return f.centroid }
func (f *Face) Area() float64      { f.updateGeometry(); return f.area }
func (f *Face) Perimeter() float64 { f.updateGeometry(); return f.perimeter }

// AddAdjacentBody records, on the original face, that a body uses it.
func (f *Face) AddAdjacentBody(ab AdjacentBody) {
	root := f.Root()
	root.adjacentBodies = append(root.adjacentBodies, ab)
}

func (f *Face) AdjacentBodies() []AdjacentBody { return f.Root().adjacentBodies }

func (f *Face) ClearAdjacency() { f.Root().adjacentBodies = nil }

func (f *Face) String() string {
	return fmt.Sprintf("Face{%d %s edges:%d t%v}", f.id, f.status, len(f.edges), f.translation)
}
