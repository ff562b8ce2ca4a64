package elements

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// OrientedFace is a face as seen from one body. The face reference is
// replaced with a translated duplicate when the body is unwrapped.
type OrientedFace struct {
	face     *Face
	reversed bool
}

func NewOrientedFace(f *Face, reversed bool) *OrientedFace {
	return &OrientedFace{face: f, reversed: reversed}
}

func (of *OrientedFace) Face() *Face      { return of.face }
func (of *OrientedFace) SetFace(f *Face)  { of.face = f }
func (of *OrientedFace) IsReversed() bool { return of.reversed }
func (of *OrientedFace) EdgeCount() int   { return of.face.EdgeCount() }

// OrientedEdge returns edge i in the traversal order of this orientation.
func (of *OrientedFace) OrientedEdge(i int) OrientedEdge {
	if of.reversed {
		n := of.face.EdgeCount()
		return of.face.OrientedEdge(n - 1 - i).Reverse()
	}
	return of.face.OrientedEdge(i)
}

func (of *OrientedFace) OrientedEdges() []OrientedEdge {
	n := of.EdgeCount()
	oes := make([]OrientedEdge, n)
	for i := 0; i < n; i++ {
		oes[i] = of.OrientedEdge(i)
	}
	return oes
}

// FaceEdgeIndex maps an edge index of this orientation to the index in the
// underlying face.
func (of *OrientedFace) FaceEdgeIndex(i int) int {
	if of.reversed {
		return of.face.EdgeCount() - 1 - i
	}
	return i
}

func (of *OrientedFace) FirstBegin() r3.Vec { return of.OrientedEdge(0).BeginPosition() }

func (of *OrientedFace) Normal() r3.Vec {
	if of.reversed {
		return r3.Scale(-1, of.face.Normal())
	}
	return of.face.Normal()
}

func (of *OrientedFace) Points() []r3.Vec   { return loopPoints(of.face.OrientedEdges(), of.reversed) }
func (of *OrientedFace) Centroid() r3.Vec   { return of.face.Centroid() }
func (of *OrientedFace) Area() float64      { return of.face.Area() }
func (of *OrientedFace) Perimeter() float64 { return of.face.Perimeter() }

func (of *OrientedFace) String() string {
	sign := "+"
	if of.reversed {
		sign = "-"
	}
	return fmt.Sprintf("%s%v", sign, of.face)
}
