package properties

import (
	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/geometry3D"
	"gonum.org/v1/gonum/spatial/r3"
)

type neighborKey struct {
	body int
	t    geometry3D.Translation
}

type neighborList struct {
	index       map[neighborKey]int
	neighbors   []elements.Neighbor
	hasFreeFace bool
}

func (nl *neighborList) add(nb *elements.Body, t geometry3D.Translation, contact float64) {
	key := neighborKey{body: nb.ID(), t: t}
	if i, ok := nl.index[key]; ok {
		nl.neighbors[i].Contact += contact
		return
	}
	nl.index[key] = len(nl.neighbors)
	nl.neighbors = append(nl.neighbors, elements.Neighbor{Body: nb, Translation: t, Contact: contact})
}

func (nl *neighborList) reflect(center r3.Vec, contact float64) {
	nl.hasFreeFace = true
	nl.neighbors = append(nl.neighbors, elements.Neighbor{IsReflection: true, Reflection: center, Contact: contact})
}

/*
CalculateNeighborsAndGrowthRate finds the bodies touching b, through the adjacency registered on the
original faces (3D) or edges (2D). A neighbor's Translation is the number of cells to move it by so
that it touches b as unwrapped, so if A lists B with t then B lists A with -t. A face or edge no
other body uses yields a reflection neighbor: the center of b mirrored across it.

The growth rate is the sum over neighbors of the pressure difference times the contact area (length
in 2D), so bodies at lower pressure than their surroundings grow. Pressures must be resolved first.
*/
func CalculateNeighborsAndGrowthRate(b *elements.Body) {
	nl := &neighborList{index: make(map[neighborKey]int)}
	if b.Is2D() {
		edgeNeighbors(b, nl)
	} else {
		faceNeighbors(b, nl)
	}
	var growth float64
	for _, n := range nl.neighbors {
		if !n.IsReflection {
			growth += (n.Body.Pressure() - b.Pressure()) * n.Contact
		}
	}
	b.SetNeighbors(nl.neighbors, nl.hasFreeFace)
	b.SetGrowthRate(growth)
}

func faceNeighbors(b *elements.Body, nl *neighborList) {
	for slot, of := range b.OrientedFaces() {
		f := of.Face()
		var found bool
		for _, ab := range f.AdjacentBodies() {
			if ab.Body == b && ab.Slot == slot {
				continue
			}
			found = true
			nl.add(ab.Body, f.Translation().Sub(ab.Translation), f.Area())
		}
		if !found {
			nl.reflect(geometry3D.ReflectAcrossPlane(b.Center(), f.Centroid(), f.Normal()), f.Area())
		}
	}
}

func edgeNeighbors(b *elements.Body, nl *neighborList) {
	of := b.OrientedFace(0)
	for i := 0; i < of.EdgeCount(); i++ {
		e := of.OrientedEdge(i).Edge()
		var found bool
		for _, aof := range e.AdjacentOrientedFaces() {
			if aof.Body == b && aof.Slot == 0 && aof.EdgeIndex == i {
				continue
			}
			found = true
			nl.add(aof.Body, e.Translation().Sub(aof.Translation), e.Length())
		}
		if !found {
			nl.reflect(geometry3D.ReflectAcrossLine(b.Center(), e.BeginPosition(), e.EndPosition()), e.Length())
		}
	}
}
