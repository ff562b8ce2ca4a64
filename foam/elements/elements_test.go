package elements

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/notargets/gofoam/geometry3D"
	"github.com/notargets/gofoam/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// unitSquare returns the face of the unit square in the z = 0 plane, wound
// counter clockwise seen from +z
func unitSquare() (*Face, []*Vertex) {
	var domain geometry3D.OOBox
	vs := []*Vertex{
		NewVertex(1, r3.Vec{}, nil),
		NewVertex(2, r3.Vec{X: 1}, nil),
		NewVertex(3, r3.Vec{X: 1, Y: 1}, nil),
		NewVertex(4, r3.Vec{Y: 1}, nil),
	}
	oes := make([]OrientedEdge, 4)
	for i := range vs {
		e := NewEdge(i+1, vs[i], vs[(i+1)%4], geometry3D.Translation{}, domain, nil, nil)
		oes[i] = NewOrientedEdge(e, false)
	}
	return NewFace(1, oes, nil), vs
}

func TestFaceGeometry(t *testing.T) {
	f, _ := unitSquare()
	{ // Forward face
		assert.True(t, f.IsClosed(1.e-9))
		assert.Equal(t, -1, f.Gap(1.e-9))
		assert.InDelta(t, 1., f.Area(), 1.e-12)
		assert.InDelta(t, 4., f.Perimeter(), 1.e-12)
		assert.True(t, geometry3D.FuzzyEqual(r3.Vec{Z: 1}, f.Normal(), 1.e-12))
		assert.True(t, geometry3D.FuzzyEqual(r3.Vec{X: .5, Y: .5}, f.Centroid(), 1.e-12))
		assert.Equal(t, 4, len(f.Points()))
		assert.Equal(t, r3.Vec{}, f.FirstBegin())
	}
	{ // Reversed orientation walks the loop backwards with the opposite normal
		of := NewOrientedFace(f, true)
		assert.True(t, geometry3D.FuzzyEqual(r3.Vec{Z: -1}, of.Normal(), 1.e-12))
		oe := of.OrientedEdge(0)
		assert.True(t, oe.IsReversed())
		assert.Equal(t, 4, oe.Edge().ID())
		assert.Equal(t, r3.Vec{}, oe.BeginPosition())
		assert.Equal(t, r3.Vec{Y: 1}, oe.EndPosition())
		assert.Equal(t, 3, of.FaceEdgeIndex(0))
		pts := of.Points()
		assert.Equal(t, []r3.Vec{{}, {Y: 1}, {X: 1, Y: 1}, {X: 1}}, pts)
		for i := 0; i < of.EdgeCount(); i++ {
			assert.Equal(t, of.OrientedEdge(i).EndPosition(), of.OrientedEdge((i+1)%4).BeginPosition())
		}
	}
	{ // Replacing the loop invalidates cached geometry
		oes := f.OrientedEdges()
		f.ReplaceEdges([]OrientedEdge{oes[0], oes[1], oes[3]})
		assert.False(t, f.IsClosed(1.e-9))
		assert.Equal(t, 1, f.Gap(1.e-9))
		assert.InDelta(t, 3., f.Perimeter(), 1.e-12)
	}
}

func TestEdgeCurves(t *testing.T) {
	b := NewVertex(1, r3.Vec{}, nil)
	en := NewVertex(2, r3.Vec{X: 2}, nil)
	mid := NewVertex(3, r3.Vec{X: 1, Y: 1}, nil)
	var domain geometry3D.OOBox
	{ // Quadratic edges pass through the middle vertex
		e := NewEdge(1, b, en, geometry3D.Translation{}, domain, Quadratic{Middle: mid, Segments: 4}, nil)
		require.Equal(t, 5, e.PointCount())
		assert.Equal(t, r3.Vec{}, e.Point(0))
		assert.Equal(t, r3.Vec{X: 2}, e.Point(4))
		assert.True(t, geometry3D.FuzzyEqual(r3.Vec{X: 1, Y: 1}, e.Point(2), 1.e-12))
		assert.True(t, e.Length() > 2)
		oe := NewOrientedEdge(e, true)
		assert.Equal(t, e.Point(3), oe.Point(1))
	}
	{ // Approximated edges keep their samples in order
		e := NewEdge(2, b, en, geometry3D.Translation{}, domain,
			Approximated{Points: []r3.Vec{{X: 1, Y: 1}}}, nil)
		assert.Equal(t, []r3.Vec{{}, {X: 1, Y: 1}, {X: 2}}, e.Points())
		assert.InDelta(t, 2*math.Sqrt2, e.Length(), 1.e-12)
	}
	{ // Periodic edges end in the neighboring cell
		periodic := geometry3D.NewOOBox(r3.Vec{X: 3}, r3.Vec{Y: 3}, r3.Vec{Z: 3})
		e := NewEdge(3, en, b, geometry3D.Translation{1, 0, 0}, periodic, nil, nil)
		assert.True(t, e.IsPeriodic())
		assert.Equal(t, r3.Vec{X: 3}, e.EndPosition())
		assert.Equal(t, r3.Vec{X: 3}, e.Point(e.PointCount()-1))
		assert.InDelta(t, 1., e.Length(), 1.e-12)
	}
}

func TestDuplicates(t *testing.T) {
	v := NewVertex(7, r3.Vec{X: 1}, Attributes{OriginalAttribute: {Type: IntAttribute, Int: 7}})
	d := v.NewDuplicate(geometry3D.Translation{1, 0, 0}, r3.Vec{X: 2})
	assert.True(t, d.IsDuplicate())
	assert.Equal(t, types.Duplicate, d.Status())
	assert.Equal(t, v, d.Root())
	assert.Equal(t, 7, d.ID())
	// duplicates of duplicates still point at the original
	dd := d.NewDuplicate(geometry3D.Translation{2, 0, 0}, r3.Vec{X: 3})
	assert.Equal(t, v, dd.Root())
	id, ok := dd.Attributes().Int(OriginalAttribute)
	assert.True(t, ok)
	assert.Equal(t, 7, id)
}

func TestAdjacencyOnRoot(t *testing.T) {
	f, vs := unitSquare()
	e := f.OrientedEdge(0).Edge()
	de := e.NewDuplicate(geometry3D.Translation{0, 0, 1}, vs[0], vs[1], nil)
	df := f.NewDuplicate(geometry3D.Translation{0, 0, 1}, f.OrientedEdges())
	de.AddAdjacentOrientedFace(AdjacentOrientedFace{Face: df, Slot: 0})
	e.AddAdjacentOrientedFace(AdjacentOrientedFace{Face: f, Slot: 1})
	assert.Equal(t, 2, len(e.AdjacentOrientedFaces()))
	assert.Equal(t, 1, e.AdjacentFaceCount())
	assert.False(t, e.IsPhysical(false))
	assert.True(t, e.IsPhysical(true))
	e.ClearAdjacency()
	assert.Empty(t, de.AdjacentOrientedFaces())

	df.AddAdjacentBody(AdjacentBody{Slot: 3})
	require.Equal(t, 1, len(f.AdjacentBodies()))
	assert.Equal(t, 3, f.AdjacentBodies()[0].Slot)

	vs[0].AddAdjacentEdge(de)
	vs[0].AddAdjacentEdge(e)
	assert.Equal(t, []*Edge{e}, vs[0].AdjacentEdges())
}

func TestBody(t *testing.T) {
	f, _ := unitSquare()
	b := NewBody(1, []*OrientedFace{NewOrientedFace(f, false)}, nil, false)
	assert.True(t, b.Is2D())
	assert.True(t, NewBody(2, nil, nil, false).Is2D())
	assert.Equal(t, 4, len(b.Vertices()))
	assert.Equal(t, 4, len(b.Edges()))

	b.SetPressure(2, true)
	b.SetActualVolume(1, false)
	assert.True(t, b.IsDeduced(PressureScalar))
	assert.False(t, b.IsDeduced(ActualVolumeScalar))
	assert.Equal(t, 2., b.Scalar(PressureScalar))
	b.SetVelocity(r3.Vec{X: 3, Y: 4})
	assert.Equal(t, 5., b.Scalar(VelocityMagnitudeScalar))

	for bs := PressureScalar; bs < bodyScalarCount; bs++ {
		parsed, err := NewBodyScalar(bs.String())
		assert.NoError(t, err)
		assert.Equal(t, bs, parsed)
	}
	_, err := NewBodyScalar("bogus")
	assert.Error(t, err)
}

func TestDeformation(t *testing.T) {
	{ // An all zero tensor is not deformed
		d := Deformation{Tensor: mat.NewSymDense(3, nil)}
		assert.Equal(t, 0., d.EigenScalar())
	}
	{
		d := Deformation{
			Tensor:      mat.NewSymDense(3, []float64{4, 0, 0, 0, 2, 0, 0, 0, 1}),
			EigenValues: [3]float64{4, 2, 1},
		}
		assert.InDelta(t, .75, d.EigenScalar(), 1.e-12)
		d.Is2D = true
		assert.InDelta(t, .5, d.EigenScalar(), 1.e-12)
		// a quarter turn about z swaps the x and y moments
		r := mat.NewDense(3, 3, []float64{0, -1, 0, 1, 0, 0, 0, 0, 1})
		rot := d.Rotated(r)
		assert.InDelta(t, 2., rot.At(0, 0), 1.e-12)
		assert.InDelta(t, 4., rot.At(1, 1), 1.e-12)
		assert.InDelta(t, 1., rot.At(2, 2), 1.e-12)
	}
}

func TestErrors(t *testing.T) {
	err := fmt.Errorf("unwrap: %w", NewMalformedTopologyError(4, 2, "gap of %g", 0.5).WithBody(9))
	assert.True(t, errors.Is(err, ErrMalformedTopology))
	assert.False(t, errors.Is(err, ErrInvalidIndex))
	var mt *MalformedTopologyError
	require.True(t, errors.As(err, &mt))
	assert.Equal(t, 9, mt.BodyID)
	assert.Contains(t, err.Error(), "face 4, edge index 2")

	err = &InvalidIndexError{Kind: types.FaceElement, ID: 3, RefKind: types.EdgeElement, Ref: 12}
	assert.True(t, errors.Is(err, ErrInvalidIndex))
	assert.Equal(t, "invalid index: face 3 references missing edge 12", err.Error())
}

func TestAttributes(t *testing.T) {
	s := NewAttributeSchema()
	attrs, err := s.Parse(types.BodyElement, map[string]interface{}{
		LagrangeMultiplierAttribute: 0.25,
		VolumeAttribute:             1,
		VelocityAttribute:           []interface{}{1., 2., 3.},
	})
	require.NoError(t, err)
	p, ok := attrs.Real(LagrangeMultiplierAttribute)
	assert.True(t, ok)
	assert.Equal(t, .25, p)
	v, _ := attrs.Real(VolumeAttribute)
	assert.Equal(t, 1., v)
	vel, _ := attrs.Reals(VelocityAttribute)
	assert.Equal(t, []float64{1, 2, 3}, vel)

	_, err = s.Parse(types.VertexElement, map[string]interface{}{"BOGUS": 1})
	assert.Error(t, err)

	require.NoError(t, s.Define(types.FaceElement, "AREA_TARGET", RealAttribute))
	assert.Error(t, s.Define(types.FaceElement, "AREA_TARGET", IntAttribute))
	attrs, err = s.Parse(types.FaceElement, map[string]interface{}{ColorAttribute: "red"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 1}, attrs[ColorAttribute].Reals)

	at, err := NewAttributeType(" Real_Array ")
	assert.NoError(t, err)
	assert.Equal(t, RealArrayAttribute, at)
}

func TestMeshBuilder(t *testing.T) {
	mb := NewMeshBuilder(geometry3D.OOBox{})
	for i, p := range []r3.Vec{{}, {X: 1}, {Y: 1}} {
		_, err := mb.AddVertex(i+1, p, nil)
		require.NoError(t, err)
	}
	_, err := mb.AddVertex(2, r3.Vec{}, nil)
	assert.Error(t, err)

	_, err = mb.AddEdge(1, 1, 2, geometry3D.Translation{}, EdgeShape{}, nil)
	require.NoError(t, err)
	_, err = mb.AddEdge(2, 2, 3, geometry3D.Translation{}, EdgeShape{}, nil)
	require.NoError(t, err)
	_, err = mb.AddEdge(3, 3, 9, geometry3D.Translation{}, EdgeShape{}, nil)
	assert.True(t, errors.Is(err, ErrInvalidIndex))
	e, err := mb.AddEdge(3, 3, 1, geometry3D.Translation{}, EdgeShape{Middle: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, QuadraticCurve, e.Curve().Kind())
	assert.Equal(t, 2, len(mb.Vertices[1].AdjacentEdges()))

	_, err = mb.AddFace(1, []types.SignedIndex{1, 2, -7}, nil)
	assert.True(t, errors.Is(err, ErrInvalidIndex))
	f, err := mb.AddFace(1, []types.SignedIndex{1, 2, 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, f.EdgeCount())

	_, err = mb.AddBody(1, []types.SignedIndex{-2}, nil, false)
	var iie *InvalidIndexError
	require.True(t, errors.As(err, &iie))
	assert.Equal(t, 2, iie.Ref)
	b, err := mb.AddBody(1, []types.SignedIndex{-1}, nil, false)
	require.NoError(t, err)
	assert.True(t, b.OrientedFace(0).IsReversed())
	assert.Equal(t, []*Face{f}, mb.SortedFaces())
	assert.Equal(t, 3, len(mb.SortedEdges()))
}
