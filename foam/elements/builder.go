package elements

import (
	"fmt"
	"sort"

	"github.com/notargets/gofoam/geometry3D"
	"github.com/notargets/gofoam/types"
	"gonum.org/v1/gonum/spatial/r3"
)

// EdgeShape selects the curve of a new edge: a quadratic edge names its
// Middle vertex, an approximated edge lists its interior Points.
type EdgeShape struct {
	Middle int
	Points []r3.Vec
}

/*
MeshBuilder assembles the elements of one time step from indexed lists, in the order vertices,
edges, faces, bodies. Every reference is checked when the referencing element is added, a missing
element is an InvalidIndexError.
*/
type MeshBuilder struct {
	Domain            geometry3D.OOBox
	QuadraticSegments int
	Vertices          map[int]*Vertex
	Edges             map[int]*Edge
	Faces             map[int]*Face
	Bodies            []*Body
	bodyIDs           map[int]struct{}
}

func NewMeshBuilder(domain geometry3D.OOBox) *MeshBuilder {
	return &MeshBuilder{
		Domain:            domain,
		QuadraticSegments: DefaultQuadraticSegments,
		Vertices:          make(map[int]*Vertex),
		Edges:             make(map[int]*Edge),
		Faces:             make(map[int]*Face),
		bodyIDs:           make(map[int]struct{}),
	}
}

func (mb *MeshBuilder) AddVertex(id int, position r3.Vec, attrs Attributes) (v *Vertex, err error) {
	if _, ok := mb.Vertices[id]; ok || id <= 0 {
		return nil, fmt.Errorf("vertex id %d is not a new positive id", id)
	}
	v = NewVertex(id, position, attrs)
	mb.Vertices[id] = v
	return
}

func (mb *MeshBuilder) AddEdge(id, begin, end int, t geometry3D.Translation, shape EdgeShape,
	attrs Attributes) (e *Edge, err error) {
	if _, ok := mb.Edges[id]; ok || id <= 0 {
		return nil, fmt.Errorf("edge id %d is not a new positive id", id)
	}
	vertex := func(ref int) (*Vertex, error) {
		v, ok := mb.Vertices[ref]
		if !ok {
			return nil, &InvalidIndexError{Kind: types.EdgeElement, ID: id, RefKind: types.VertexElement, Ref: ref}
		}
		return v, nil
	}
	var bv, ev *Vertex
	if bv, err = vertex(begin); err != nil {
		return
	}
	if ev, err = vertex(end); err != nil {
		return
	}
	var curve Curve = Straight{}
	switch {
	case shape.Middle != 0:
		var mv *Vertex
		if mv, err = vertex(shape.Middle); err != nil {
			return
		}
		curve = Quadratic{Middle: mv, Segments: mb.QuadraticSegments}
	case len(shape.Points) != 0:
		curve = Approximated{Points: shape.Points}
	}
	e = NewEdge(id, bv, ev, t, mb.Domain, curve, attrs)
	bv.AddAdjacentEdge(e)
	ev.AddAdjacentEdge(e)
	mb.Edges[id] = e
	return
}

func (mb *MeshBuilder) AddFace(id int, edges []types.SignedIndex, attrs Attributes) (f *Face, err error) {
	if _, ok := mb.Faces[id]; ok || id <= 0 {
		return nil, fmt.Errorf("face id %d is not a new positive id", id)
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("face %d has no edges", id)
	}
	oes := make([]OrientedEdge, len(edges))
	for i, si := range edges {
		ref, reversed := si.Decode()
		e, ok := mb.Edges[ref]
		if !ok || !si.IsValid() {
			return nil, &InvalidIndexError{Kind: types.FaceElement, ID: id, RefKind: types.EdgeElement, Ref: ref}
		}
		oes[i] = NewOrientedEdge(e, reversed)
	}
	f = NewFace(id, oes, attrs)
	mb.Faces[id] = f
	return
}

func (mb *MeshBuilder) AddBody(id int, faces []types.SignedIndex, attrs Attributes, object bool) (b *Body, err error) {
	if _, ok := mb.bodyIDs[id]; ok || id <= 0 {
		return nil, fmt.Errorf("body id %d is not a new positive id", id)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("body %d has no faces", id)
	}
	ofs := make([]*OrientedFace, len(faces))
	for i, si := range faces {
		ref, reversed := si.Decode()
		f, ok := mb.Faces[ref]
		if !ok || !si.IsValid() {
			return nil, &InvalidIndexError{Kind: types.BodyElement, ID: id, RefKind: types.FaceElement, Ref: ref}
		}
		ofs[i] = NewOrientedFace(f, reversed)
	}
	b = NewBody(id, ofs, attrs, object)
	mb.bodyIDs[id] = struct{}{}
	mb.Bodies = append(mb.Bodies, b)
	return
}

// SortedFaces returns the faces in increasing id order.
func (mb *MeshBuilder) SortedFaces() []*Face {
	fs := make([]*Face, 0, len(mb.Faces))
	for _, f := range mb.Faces {
		fs = append(fs, f)
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].ID() < fs[j].ID() })
	return fs
}

// SortedEdges returns the edges in increasing id order.
func (mb *MeshBuilder) SortedEdges() []*Edge {
	es := make([]*Edge, 0, len(mb.Edges))
	for _, e := range mb.Edges {
		es = append(es, e)
	}
	sort.Slice(es, func(i, j int) bool { return es[i].ID() < es[j].ID() })
	return es
}
