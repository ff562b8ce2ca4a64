// Package unwrap turns the periodic, wrapped elements of a time step into
// connected, non periodic bodies. Faces are closed first (UnwrapFace), then
// every body is assembled face by face with a breadth first traversal.
package unwrap

import (
	"fmt"

	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/geometry3D"
	"gonum.org/v1/gonum/spatial/r3"
)

type dupKey struct {
	id int
	t  geometry3D.Translation
}

/*
Duplicator hands out translated copies of original elements. A copy is identified by its original
and the integer translation from the original, so asking twice for the same image returns the same
object: two faces needing "vertex 3 one cell along X" share that vertex.
One Duplicator serves one time step, its caches are not safe for concurrent use.
*/
type Duplicator struct {
	domain   geometry3D.OOBox
	tol      float64
	vertices map[dupKey]*elements.Vertex
	edges    map[dupKey]*elements.Edge
	faces    map[dupKey]*elements.Face
}

func NewDuplicator(domain geometry3D.OOBox, tol float64) *Duplicator {
	return &Duplicator{
		domain:   domain,
		tol:      tol,
		vertices: make(map[dupKey]*elements.Vertex),
		edges:    make(map[dupKey]*elements.Edge),
		faces:    make(map[dupKey]*elements.Face),
	}
}

func (d *Duplicator) Domain() geometry3D.OOBox { return d.domain }

// Counts returns the number of duplicates created so far.
func (d *Duplicator) Counts() (vertices, edges, faces int) {
	return len(d.vertices), len(d.edges), len(d.faces)
}

func (d *Duplicator) translationTo(from, to r3.Vec) (t geometry3D.Translation, err error) {
	var ok bool
	if t, ok = d.domain.GetTranslation(from, to, d.tol); !ok {
		err = fmt.Errorf("(%g,%g,%g) is not a periodic image of (%g,%g,%g)",
			to.X, to.Y, to.Z, from.X, from.Y, from.Z)
	}
	return
}

// GetVertexDuplicate returns the image of v's original at position, the
// original itself when it already sits there.
func (d *Duplicator) GetVertexDuplicate(v *elements.Vertex, position r3.Vec) (*elements.Vertex, error) {
	root := v.Root()
	if geometry3D.FuzzyEqual(root.Position(), position, d.tol) {
		return root, nil
	}
	t, err := d.translationTo(root.Position(), position)
	if err != nil {
		return nil, fmt.Errorf("vertex %d: %w", root.ID(), err)
	}
	if t.IsZero() {
		return root, nil
	}
	key := dupKey{id: root.ID(), t: t}
	if dup, ok := d.vertices[key]; ok {
		return dup, nil
	}
	// exact lattice position, not the caller's rounded one
	dup := root.NewDuplicate(t, d.domain.Translate(root.Position(), t))
	d.vertices[key] = dup
	return dup, nil
}

/*
GetEdgeDuplicate returns the image of e's original that begins at begin. The image never crosses a
periodic boundary: an original with a non zero end translation is duplicated even in place, its copy
ending on a duplicate of the end vertex.
*/
func (d *Duplicator) GetEdgeDuplicate(e *elements.Edge, begin r3.Vec) (*elements.Edge, error) {
	root := e.Root()
	t, err := d.translationTo(root.BeginPosition(), begin)
	if err != nil {
		return nil, fmt.Errorf("edge %d: %w", root.ID(), err)
	}
	if t.IsZero() && !root.IsPeriodic() {
		return root, nil
	}
	key := dupKey{id: root.ID(), t: t}
	if dup, ok := d.edges[key]; ok {
		return dup, nil
	}
	bv, err := d.GetVertexDuplicate(root.Begin(), d.domain.Translate(root.BeginPosition(), t))
	if err != nil {
		return nil, err
	}
	ev, err := d.GetVertexDuplicate(root.End(), d.domain.Translate(root.EndPosition(), t))
	if err != nil {
		return nil, err
	}
	var curve elements.Curve
	switch c := root.Curve().(type) {
	case elements.Quadratic:
		mid, err := d.GetVertexDuplicate(c.Middle, d.domain.Translate(c.Middle.Position(), t))
		if err != nil {
			return nil, err
		}
		curve = elements.Quadratic{Middle: mid, Segments: c.Segments}
	case elements.Approximated:
		pts := make([]r3.Vec, len(c.Points))
		for i, p := range c.Points {
			pts[i] = d.domain.Translate(p, t)
		}
		curve = elements.Approximated{Points: pts}
	default:
		curve = c
	}
	dup := root.NewDuplicate(t, bv, ev, curve)
	d.edges[key] = dup
	return dup, nil
}

/*
GetFaceDuplicate returns the image of f's original whose first edge begins at begin. The original
must be closed (see UnwrapFace). Edges are placed one after the other, each anchored at the end of
the previous copy, and the copy must close on itself.
*/
func (d *Duplicator) GetFaceDuplicate(f *elements.Face, begin r3.Vec) (*elements.Face, error) {
	root := f.Root()
	t, err := d.translationTo(root.FirstBegin(), begin)
	if err != nil {
		return nil, elements.NewMalformedTopologyError(root.ID(), 0, "%v", err)
	}
	if t.IsZero() {
		return root, nil
	}
	key := dupKey{id: root.ID(), t: t}
	if dup, ok := d.faces[key]; ok {
		return dup, nil
	}
	loop, err := d.duplicateLoop(root.ID(), root.OrientedEdges(), d.domain.Translate(root.FirstBegin(), t))
	if err != nil {
		return nil, err
	}
	dup := root.NewDuplicate(t, loop)
	d.faces[key] = dup
	return dup, nil
}

/*
UnwrapFace closes the edge loop of an original face in place: the first edge stays where it is and
every following edge is replaced by its image beginning where the previous one ends. Periodic edges
are replaced by non periodic copies. Calling it again on a closed face changes nothing.
*/
func (d *Duplicator) UnwrapFace(f *elements.Face) error {
	if f.IsDuplicate() {
		return fmt.Errorf("face %d: only original faces are unwrapped in place", f.ID())
	}
	loop, err := d.duplicateLoop(f.ID(), f.OrientedEdges(), f.FirstBegin())
	if err != nil {
		return err
	}
	f.ReplaceEdges(loop)
	return nil
}

func (d *Duplicator) duplicateLoop(faceID int, oes []elements.OrientedEdge,
	anchor r3.Vec) (loop []elements.OrientedEdge, err error) {
	var (
		first = anchor
		n     = len(oes)
	)
	loop = make([]elements.OrientedEdge, n)
	for i, oe := range oes {
		var t geometry3D.Translation
		if t, err = d.translationTo(oe.BeginPosition(), anchor); err != nil {
			return nil, elements.NewMalformedTopologyError(faceID, i,
				"edge %d does not start at an image of the previous end: %v", oe.Edge().ID(), err)
		}
		e := oe.Edge()
		var dup *elements.Edge
		if dup, err = d.GetEdgeDuplicate(e, d.domain.Translate(e.BeginPosition(), t)); err != nil {
			return nil, elements.NewMalformedTopologyError(faceID, i, "%v", err)
		}
		loop[i] = elements.NewOrientedEdge(dup, oe.IsReversed())
		anchor = loop[i].EndPosition()
	}
	if !geometry3D.FuzzyEqual(anchor, first, d.tol) {
		return nil, elements.NewMalformedTopologyError(faceID, n-1,
			"edge loop does not close, gap %g", r3.Norm(r3.Sub(anchor, first)))
	}
	return
}
