package elements

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// OrientedEdge is an edge traversed forward or in reverse. It does not own
// the edge, many oriented edges share one.
type OrientedEdge struct {
	edge     *Edge
	reversed bool
}

func NewOrientedEdge(e *Edge, reversed bool) OrientedEdge {
	return OrientedEdge{edge: e, reversed: reversed}
}

func (oe OrientedEdge) Edge() *Edge      { return oe.edge }
func (oe OrientedEdge) IsReversed() bool { return oe.reversed }
func (oe OrientedEdge) Reverse() OrientedEdge {
	return OrientedEdge{edge: oe.edge, reversed: !oe.reversed}
}

// Begin returns the vertex the traversal starts at. For a forward edge
// crossing a periodic boundary End() is stored in its own cell, use the
// positions for geometry.
func (oe OrientedEdge) Begin() *Vertex {
	if oe.reversed {
		return oe.edge.End()
	}
	return oe.edge.Begin()
}

func (oe OrientedEdge) End() *Vertex {
	if oe.reversed {
		return oe.edge.Begin()
	}
	return oe.edge.End()
}

func (oe OrientedEdge) BeginPosition() r3.Vec {
	if oe.reversed {
		return oe.edge.EndPosition()
	}
	return oe.edge.BeginPosition()
}

func (oe OrientedEdge) EndPosition() r3.Vec {
	if oe.reversed {
		return oe.edge.BeginPosition()
	}
	return oe.edge.EndPosition()
}

func (oe OrientedEdge) PointCount() int { return oe.edge.PointCount() }

func (oe OrientedEdge) Point(i int) r3.Vec {
	if oe.reversed {
		return oe.edge.Point(oe.edge.PointCount() - 1 - i)
	}
	return oe.edge.Point(i)
}

// Direction is the vector from the oriented begin to the oriented end.
func (oe OrientedEdge) Direction() r3.Vec {
	return r3.Sub(oe.EndPosition(), oe.BeginPosition())
}

func (oe OrientedEdge) Length() float64 { return oe.edge.Length() }

// SameEdge reports whether both wrap images of the same original edge.
func (oe OrientedEdge) SameEdge(other OrientedEdge) bool {
	return oe.edge.Root() == other.edge.Root()
}

func (oe OrientedEdge) String() string {
	sign := "+"
	if oe.reversed {
		sign = "-"
	}
	return fmt.Sprintf("%s%v", sign, oe.edge)
}
