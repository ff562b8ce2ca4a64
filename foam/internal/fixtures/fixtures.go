// Package fixtures builds small foams with known answers for tests.
package fixtures

import (
	"fmt"

	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/geometry3D"
	"github.com/notargets/gofoam/types"
	"gonum.org/v1/gonum/spatial/r3"
)

type edgeDef struct {
	begin, end int
	t          geometry3D.Translation
}

type meshDef struct {
	domain   geometry3D.OOBox
	vertices []r3.Vec
	edges    []edgeDef
	faces    [][]types.SignedIndex
	bodies   [][]types.SignedIndex
}

// build numbers every element from 1 in list order
func (md meshDef) build() *elements.MeshBuilder {
	mb := elements.NewMeshBuilder(md.domain)
	for i, p := range md.vertices {
		mustNot(mb.AddVertex(i+1, p, nil))
	}
	for i, e := range md.edges {
		mustNot(mb.AddEdge(i+1, e.begin, e.end, e.t, elements.EdgeShape{}, nil))
	}
	for i, f := range md.faces {
		mustNot(mb.AddFace(i+1, f, nil))
	}
	for i, b := range md.bodies {
		mustNot(mb.AddBody(i+1, b, nil, false))
	}
	return mb
}

func mustNot(_ interface{}, err error) {
	if err != nil {
		panic(fmt.Errorf("fixture: %w", err))
	}
}

func signed(ids ...int) []types.SignedIndex {
	s := make([]types.SignedIndex, len(ids))
	for i, id := range ids {
		s[i] = types.SignedIndex(id)
	}
	return s
}

func scaled(side float64, ps ...r3.Vec) []r3.Vec {
	for i := range ps {
		ps[i] = r3.Scale(side, ps[i])
	}
	return ps
}

/*
Cube is a single, non periodic cube [0,side]^3 with outward facing normals.

	vertices 1..4 on z = 0 counter clockwise from the origin, 5..8 above them
	edges 1..4 bottom ring, 5..8 top ring, 9..12 verticals
*/
func Cube(side float64) *elements.MeshBuilder {
	return meshDef{
		vertices: scaled(side,
			r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, r3.Vec{Y: 1},
			r3.Vec{Z: 1}, r3.Vec{X: 1, Z: 1}, r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{Y: 1, Z: 1}),
		edges: []edgeDef{
			{begin: 1, end: 2}, {begin: 2, end: 3}, {begin: 3, end: 4}, {begin: 4, end: 1},
			{begin: 5, end: 6}, {begin: 6, end: 7}, {begin: 7, end: 8}, {begin: 8, end: 5},
			{begin: 1, end: 5}, {begin: 2, end: 6}, {begin: 3, end: 7}, {begin: 4, end: 8},
		},
		faces: [][]types.SignedIndex{
			signed(-4, -3, -2, -1), // bottom, -z
			signed(5, 6, 7, 8),     // top, +z
			signed(1, 10, -5, -9),  // y = 0, -y
			signed(2, 11, -6, -10), // x = side, +x
			signed(3, 12, -7, -11), // y = side, +y
			signed(4, 9, -8, -12),  // x = 0, -x
		},
		bodies: [][]types.SignedIndex{signed(1, 2, 3, 4, 5, 6)},
	}.build()
}

/*
StackedCubes is two unit cubes, body 1 on [0,1]^3 and body 2 on top of it, sharing face 2 (z = 1)
which body 1 uses forward and body 2 reversed. Vertices 9..12 and edges 13..20 extend Cube upwards.
*/
func StackedCubes() *elements.MeshBuilder {
	md := meshDef{
		vertices: []r3.Vec{
			{}, {X: 1}, {X: 1, Y: 1}, {Y: 1},
			{Z: 1}, {X: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {Y: 1, Z: 1},
			{Z: 2}, {X: 1, Z: 2}, {X: 1, Y: 1, Z: 2}, {Y: 1, Z: 2},
		},
		edges: []edgeDef{
			{begin: 1, end: 2}, {begin: 2, end: 3}, {begin: 3, end: 4}, {begin: 4, end: 1},
			{begin: 5, end: 6}, {begin: 6, end: 7}, {begin: 7, end: 8}, {begin: 8, end: 5},
			{begin: 1, end: 5}, {begin: 2, end: 6}, {begin: 3, end: 7}, {begin: 4, end: 8},
			{begin: 9, end: 10}, {begin: 10, end: 11}, {begin: 11, end: 12}, {begin: 12, end: 9},
			{begin: 5, end: 9}, {begin: 6, end: 10}, {begin: 7, end: 11}, {begin: 8, end: 12},
		},
		faces: [][]types.SignedIndex{
			signed(-4, -3, -2, -1),
			signed(5, 6, 7, 8),
			signed(1, 10, -5, -9),
			signed(2, 11, -6, -10),
			signed(3, 12, -7, -11),
			signed(4, 9, -8, -12),
			signed(13, 14, 15, 16),  // z = 2, +z
			signed(5, 18, -13, -17), // y = 0
			signed(6, 19, -14, -18), // x = 1
			signed(7, 20, -15, -19), // y = 1
			signed(8, 17, -16, -20), // x = 0
		},
		bodies: [][]types.SignedIndex{
			signed(1, 2, 3, 4, 5, 6),
			signed(-2, 7, 8, 9, 10, 11),
		},
	}
	return md.build()
}

/*
XPeriodicCube is a unit cube in a domain periodic along X with period 1 (and 10 along Y and Z, far
enough to never wrap). Only the four vertices on x = 0 exist, the four edges along X start and end
on the same vertex one cell apart. Face 1 (x = 0, normal +x) is used by the body twice: reversed as
its x = 0 side, forward as its x = 1 side. The body is its own neighbor across face 1.

	vertices 1..4: (0,0,0) (0,1,0) (0,1,1) (0,0,1)
	edges 1..4: the ring of face 1, edges 5..8: along X from vertex 1..4
	faces 2..5: y = 0, y = 1, z = 1, z = 0
*/
func XPeriodicCube() *elements.MeshBuilder {
	x := geometry3D.Translation{1, 0, 0}
	return meshDef{
		domain:   geometry3D.NewOOBox(r3.Vec{X: 1}, r3.Vec{Y: 10}, r3.Vec{Z: 10}),
		vertices: []r3.Vec{{}, {Y: 1}, {Y: 1, Z: 1}, {Z: 1}},
		edges: []edgeDef{
			{begin: 1, end: 2}, {begin: 2, end: 3}, {begin: 3, end: 4}, {begin: 4, end: 1},
			{begin: 1, end: 1, t: x}, {begin: 2, end: 2, t: x}, {begin: 3, end: 3, t: x}, {begin: 4, end: 4, t: x},
		},
		faces: [][]types.SignedIndex{
			signed(1, 2, 3, 4),
			signed(5, -4, -8, 4),
			signed(2, 7, -2, -6),
			signed(8, -3, -7, 3),
			signed(1, 6, -1, -5),
		},
		bodies: [][]types.SignedIndex{signed(-1, 1, 2, 3, 4, 5)},
	}.build()
}

/*
Lattice is the simple cubic lattice of unit cubes in a unit periodic domain: one vertex at the
origin, one edge along each axis (1: X, 2: Y, 3: Z) ending on the same vertex one cell further, and
one face per coordinate plane (1: x = 0, 2: y = 0, 3: z = 0, each with a positive normal). The single
body uses every face twice and neighbors itself across all six sides.
*/
func Lattice() *elements.MeshBuilder {
	return meshDef{
		domain:   geometry3D.NewOOBox(r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{Z: 1}),
		vertices: []r3.Vec{{}},
		edges: []edgeDef{
			{begin: 1, end: 1, t: geometry3D.Translation{1, 0, 0}},
			{begin: 1, end: 1, t: geometry3D.Translation{0, 1, 0}},
			{begin: 1, end: 1, t: geometry3D.Translation{0, 0, 1}},
		},
		faces: [][]types.SignedIndex{
			signed(2, 3, -2, -3), // x = 0: Y, Y->Y+Z, Y+Z->Z, Z->0
			signed(3, 1, -3, -1), // y = 0
			signed(1, 2, -1, -2), // z = 0
		},
		bodies: [][]types.SignedIndex{signed(-1, 1, -2, 2, -3, 3)},
	}.build()
}

/*
Squares2D is a 2D periodic foam of two unit square bodies in a 2 x 1 domain: body 1 on [0,1]x[0,1],
body 2 on [1,2]x[0,1]. Only vertices (0,0) and (1,0) exist.

	edge 1: (0,0)->(1,0), edge 2: (1,0)->(2,0) wrapping to vertex 1
	edge 3: (0,0)->(0,1) wrapping to vertex 1, edge 4: (1,0)->(1,1) wrapping to vertex 2
*/
func Squares2D() *elements.MeshBuilder {
	return meshDef{
		domain:   geometry3D.NewOOBox2D(r3.Vec{X: 2}, r3.Vec{Y: 1}),
		vertices: []r3.Vec{{}, {X: 1}},
		edges: []edgeDef{
			{begin: 1, end: 2},
			{begin: 2, end: 1, t: geometry3D.Translation{1, 0, 0}},
			{begin: 1, end: 1, t: geometry3D.Translation{0, 1, 0}},
			{begin: 2, end: 2, t: geometry3D.Translation{0, 1, 0}},
		},
		faces: [][]types.SignedIndex{
			signed(1, 4, -1, -3),
			signed(2, 3, -2, -4),
		},
		bodies: [][]types.SignedIndex{signed(1), signed(2)},
	}.build()
}

// Rectangle2D is a lone w x h rectangle with a corner at the origin, every
// edge of it is free.
func Rectangle2D(w, h float64) *elements.MeshBuilder {
	return meshDef{
		vertices: []r3.Vec{{}, {X: w}, {X: w, Y: h}, {Y: h}},
		edges: []edgeDef{
			{begin: 1, end: 2}, {begin: 2, end: 3}, {begin: 3, end: 4}, {begin: 4, end: 1},
		},
		faces:  [][]types.SignedIndex{signed(1, 2, 3, 4)},
		bodies: [][]types.SignedIndex{signed(1)},
	}.build()
}
