package properties

import (
	"sort"

	"github.com/james-bowman/sparse"
	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/types"
	"gonum.org/v1/gonum/spatial/r3"
)

// Contact is a face (3D) or edge (2D) and the ids of the bodies using it.
// A body using it twice, across a periodic boundary, is listed twice.
type Contact struct {
	Bodies   []int
	Position r3.Vec
}

/*
ContactMap records which bodies of a time step touch. Rows of a sparse incidence matrix are bodies,
columns contacts; the product of the incidence with its transpose counts, for every pair of bodies,
the contacts they share.
*/
type ContactMap struct {
	ids       []int
	index     map[int]int
	shared    *sparse.CSR
	contacts  []int // contacts per body
	positions map[types.PairKey]r3.Vec
}

func NewContactMap(bodyIDs []int, contacts []Contact) *ContactMap {
	cm := &ContactMap{
		ids:       append([]int(nil), bodyIDs...),
		index:     make(map[int]int, len(bodyIDs)),
		contacts:  make([]int, len(bodyIDs)),
		positions: make(map[types.PairKey]r3.Vec),
	}
	for i, id := range cm.ids {
		cm.index[id] = i
	}
	var (
		nb     = len(cm.ids)
		nc     = len(contacts)
		counts = make(map[types.PairKey]int)
	)
	if nb == 0 || nc == 0 {
		cm.shared = sparse.NewCSR(nb, nb, make([]int, nb+1), nil, nil)
		return cm
	}
	incidence := sparse.NewDOK(nb, nc)
	for j, c := range contacts {
		var rows []int
		for _, id := range c.Bodies {
			i, ok := cm.index[id]
			if !ok {
				continue
			}
			if incidence.At(i, j) == 0 {
				rows = append(rows, i)
				cm.contacts[i]++
			}
			incidence.Set(i, j, 1)
		}
		for a := 0; a < len(rows); a++ {
			for b := a + 1; b < len(rows); b++ {
				key := types.NewPairKey([2]int{cm.ids[rows[a]], cm.ids[rows[b]]})
				cm.positions[key] = r3.Add(cm.positions[key], c.Position)
				counts[key]++
			}
		}
	}
	for key, n := range counts {
		cm.positions[key] = r3.Scale(1/float64(n), cm.positions[key])
	}
	B := incidence.ToCSR()
	cm.shared = sparse.NewCSR(nb, nb, nil, nil, nil)
	cm.shared.Mul(B, B.T())
	return cm
}

// NewContactMapFromBodies collects the contacts of unwrapped bodies from
// the adjacency registered on original faces, or edges in 2D.
func NewContactMapFromBodies(bodies []*elements.Body) *ContactMap {
	var (
		ids      = make([]int, len(bodies))
		byFace   = make(map[*elements.Face]*Contact)
		byEdge   = make(map[*elements.Edge]*Contact)
		contacts []*Contact
	)
	for i, b := range bodies {
		ids[i] = b.ID()
		if b.Is2D() {
			for _, oe := range b.OrientedFace(0).OrientedEdges() {
				root := oe.Edge().Root()
				c, ok := byEdge[root]
				if !ok {
					pts := root.Points()
					c = &Contact{Position: r3.Scale(.5, r3.Add(pts[0], pts[len(pts)-1]))}
					byEdge[root] = c
					contacts = append(contacts, c)
				}
				c.Bodies = append(c.Bodies, b.ID())
			}
			continue
		}
		for _, of := range b.OrientedFaces() {
			root := of.Face().Root()
			c, ok := byFace[root]
			if !ok {
				c = &Contact{Position: root.Centroid()}
				byFace[root] = c
				contacts = append(contacts, c)
			}
			c.Bodies = append(c.Bodies, b.ID())
		}
	}
	flat := make([]Contact, len(contacts))
	for i, c := range contacts {
		flat[i] = *c
	}
	return NewContactMap(ids, flat)
}

func (cm *ContactMap) Has(id int) bool {
	_, ok := cm.index[id]
	return ok
}

// Shared counts the contacts bodies a and b have in common.
func (cm *ContactMap) Shared(a, b int) int {
	i, ok := cm.index[a]
	j, ok2 := cm.index[b]
	if !ok || !ok2 {
		return 0
	}
	return int(cm.shared.At(i, j))
}

func (cm *ContactMap) AreNeighbors(a, b int) bool { return a != b && cm.Shared(a, b) > 0 }

// Neighbors returns the ids of the other bodies touching id, sorted.
func (cm *ContactMap) Neighbors(id int) (nbs []int) {
	i, ok := cm.index[id]
	if !ok {
		return nil
	}
	for j, other := range cm.ids {
		if j != i && cm.shared.At(i, j) > 0 {
			nbs = append(nbs, other)
		}
	}
	sort.Ints(nbs)
	return
}

// ContactCount is the number of faces (edges in 2D) of body id.
func (cm *ContactMap) ContactCount(id int) int {
	if i, ok := cm.index[id]; ok {
		return cm.contacts[i]
	}
	return 0
}

// Position is the average position of the contacts of a and b.
func (cm *ContactMap) Position(a, b int) (r3.Vec, bool) {
	p, ok := cm.positions[types.NewPairKey([2]int{a, b})]
	return p, ok
}

// Pairs returns every pair of touching bodies.
func (cm *ContactMap) Pairs() (pairs []types.PairKey) {
	for key := range cm.positions {
		pairs = append(pairs, key)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i] < pairs[j] })
	return
}
