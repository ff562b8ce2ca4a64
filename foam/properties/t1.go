package properties

import (
	"sort"

	"github.com/notargets/gofoam/types"
	"gonum.org/v1/gonum/spatial/r3"
)

// unionFind over pair indices
type unionFind []int

func newUnionFind(n int) unionFind {
	uf := make(unionFind, n)
	for i := range uf {
		uf[i] = i
	}
	return uf
}

func (uf unionFind) find(i int) int {
	for uf[i] != i {
		uf[i] = uf[uf[i]]
		i = uf[i]
	}
	return i
}

func (uf unionFind) union(i, j int) { uf[uf.find(i)] = uf.find(j) }

type pairChange struct {
	key    types.PairKey
	gained bool
}

/*
DetectT1s compares the contacts of two consecutive time steps and reports one T1 per cluster of
changed contacts. Only bodies present in both steps are considered. Changed pairs are clustered when
they share a body, or when a lost pair (A,B) and a gained pair (C,D) have C and D both touching A, or
both touching B, before the change: the four bubbles of a neighbor swap.

A cluster losing one contact and gaining one is a quad to quad swap. In 3D a cluster that only gains
is an edge to triangle change and one that only loses a triangle to edge change; in 2D gaining only
pops an edge, losing only pops a vertex. Larger clusters pop a vertex when they lose more than they
gain, an edge otherwise. The position is the average contact position of the changed pairs and the
event is reported at step, the earlier of the two time steps.
*/
func DetectT1s(before, after *ContactMap, step int, is2D bool) (t1s []types.T1) {
	var changes []pairChange
	for _, key := range before.Pairs() {
		ids := key.GetIDs()
		if after.Has(ids[0]) && after.Has(ids[1]) && !after.AreNeighbors(ids[0], ids[1]) {
			changes = append(changes, pairChange{key: key})
		}
	}
	for _, key := range after.Pairs() {
		ids := key.GetIDs()
		if before.Has(ids[0]) && before.Has(ids[1]) && !before.AreNeighbors(ids[0], ids[1]) {
			changes = append(changes, pairChange{key: key, gained: true})
		}
	}
	if len(changes) == 0 {
		return
	}
	uf := newUnionFind(len(changes))
	for i := range changes {
		a := changes[i].key.GetIDs()
		for j := i + 1; j < len(changes); j++ {
			b := changes[j].key.GetIDs()
			switch {
			case changes[j].key.Contains(a[0]) || changes[j].key.Contains(a[1]):
				uf.union(i, j)
			case !changes[i].gained && changes[j].gained && surrounds(before, a, b):
				uf.union(i, j)
			case changes[i].gained && !changes[j].gained && surrounds(before, b, a):
				uf.union(i, j)
			}
		}
	}
	clusters := make(map[int][]pairChange)
	var roots []int
	for i, c := range changes {
		r := uf.find(i)
		if _, ok := clusters[r]; !ok {
			roots = append(roots, r)
		}
		clusters[r] = append(clusters[r], c)
	}
	sort.Ints(roots)
	for _, r := range roots {
		t1s = append(t1s, newT1(clusters[r], before, after, step, is2D))
	}
	return
}

// surrounds reports whether both bodies of gained touch one body of lost.
func surrounds(cm *ContactMap, lost, gained [2]int) bool {
	for _, l := range lost {
		if cm.AreNeighbors(l, gained[0]) && cm.AreNeighbors(l, gained[1]) {
			return true
		}
	}
	return false
}

func newT1(cluster []pairChange, before, after *ContactMap, step int, is2D bool) types.T1 {
	var (
		lost, gained int
		sum          r3.Vec
		bodies       = make(map[int]struct{})
	)
	for _, c := range cluster {
		ids := c.key.GetIDs()
		var p r3.Vec
		if c.gained {
			gained++
			p, _ = after.Position(ids[0], ids[1])
		} else {
			lost++
			p, _ = before.Position(ids[0], ids[1])
		}
		sum = r3.Add(sum, p)
		bodies[ids[0]], bodies[ids[1]] = struct{}{}, struct{}{}
	}
	t1 := types.T1{
		Position: r3.Scale(1/float64(len(cluster)), sum),
		Type:     classifyT1(lost, gained, is2D),
		TimeStep: step,
	}
	for id := range bodies {
		t1.Bodies = append(t1.Bodies, id)
	}
	sort.Ints(t1.Bodies)
	return t1
}

func classifyT1(lost, gained int, is2D bool) types.T1Type {
	switch {
	case lost == 1 && gained == 1:
		return types.T1QuadToQuad
	case lost == 0 && is2D:
		return types.T1PopEdge
	case gained == 0 && is2D:
		return types.T1PopVertex
	case lost == 0:
		return types.T1EdgeToTri
	case gained == 0:
		return types.T1TriToEdge
	case lost > gained:
		return types.T1PopVertex
	default:
		return types.T1PopEdge
	}
}
