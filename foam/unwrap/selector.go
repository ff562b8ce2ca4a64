package unwrap

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/geometry3D"
	"github.com/notargets/gofoam/utils"
)

// Strategy names the rule used to pick among several faces fitting an edge.
type Strategy uint8

const (
	NormalGroupStrategy Strategy = iota
	DirectEdgeStrategy
	TriangleStrategy
)

var strategyNames = [...]string{"normal_group", "direct_edge", "triangle"}

func (s Strategy) String() string {
	if int(s) >= len(strategyNames) {
		return "unknown"
	}
	return strategyNames[s]
}

// NewStrategy parses a strategy name, case and dash insensitive.
func NewStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	for i, n := range strategyNames {
		if n == key {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown unwrap strategy %q", name)
}

// CandidateSelector picks the face that continues the body across edge.
// A lone candidate is always taken.
type CandidateSelector interface {
	Select(current *elements.OrientedFace, edge elements.OrientedEdge, cands []Candidate) (Candidate, bool)
}

func NewSelector(s Strategy) CandidateSelector {
	switch s {
	case DirectEdgeStrategy:
		return DirectEdgeSelector{}
	case TriangleStrategy:
		return TriangleSelector{}
	default:
		return NormalGroupSelector{GroupAngle: utils.ANGLETOL}
	}
}

func translationNorm2(t geometry3D.Translation) int {
	return t[0]*t[0] + t[1]*t[1] + t[2]*t[2]
}

// lessCandidate breaks ties: shorter translation, then lower slot, then
// lower edge index.
func lessCandidate(a, b Candidate) bool {
	na, nb := translationNorm2(a.Translation), translationNorm2(b.Translation)
	switch {
	case na != nb:
		return na < nb
	case a.Slot != b.Slot:
		return a.Slot < b.Slot
	default:
		return a.EdgeIndex < b.EdgeIndex
	}
}

/*
NormalGroupSelector keeps the candidates passing IsValidNext (all of them if none does), groups
those whose normals agree within GroupAngle and scans the groups by increasing angle to the current
face's normal. The first group wins, ties inside it go to lessCandidate.
*/
type NormalGroupSelector struct {
	GroupAngle float64
}

type normalGroup struct {
	angle float64
	cands []Candidate
}

func (sel NormalGroupSelector) Select(current *elements.OrientedFace, edge elements.OrientedEdge,
	cands []Candidate) (best Candidate, ok bool) {
	switch len(cands) {
	case 0:
		return
	case 1:
		return cands[0], true
	}
	var valid []Candidate
	for _, c := range cands {
		if IsValidNext(current, c, edge) {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		valid = cands
	}
	var groups []*normalGroup
	for _, c := range valid {
		var g *normalGroup
		for _, existing := range groups {
			if geometry3D.Angle(existing.cands[0].Normal(), c.Normal()) <= sel.GroupAngle {
				g = existing
				break
			}
		}
		if g == nil {
			g = &normalGroup{angle: geometry3D.Angle(current.Normal(), c.Normal())}
			groups = append(groups, g)
		}
		g.cands = append(g.cands, c)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].angle < groups[j].angle })
	best = groups[0].cands[0]
	for _, c := range groups[0].cands[1:] {
		if lessCandidate(c, best) {
			best = c
		}
	}
	return best, true
}

// DirectEdgeSelector takes the candidate closest to where it is stored,
// that is with the shortest translation.
type DirectEdgeSelector struct{}

func (DirectEdgeSelector) Select(_ *elements.OrientedFace, _ elements.OrientedEdge,
	cands []Candidate) (best Candidate, ok bool) {
	if len(cands) == 0 {
		return
	}
	best = cands[0]
	for _, c := range cands[1:] {
		if lessCandidate(c, best) {
			best = c
		}
	}
	return best, true
}

// TriangleSelector takes the candidate reached first when turning around the
// edge from the current face into the body, see TurningAngle.
type TriangleSelector struct{}

func (TriangleSelector) Select(current *elements.OrientedFace, edge elements.OrientedEdge,
	cands []Candidate) (best Candidate, ok bool) {
	switch len(cands) {
	case 0:
		return
	case 1:
		return cands[0], true
	}
	bestAngle := math.Inf(1)
	for _, c := range cands {
		theta := TurningAngle(current, c, edge)
		if theta <= utils.ANGLETOL {
			continue
		}
		if !ok || theta < bestAngle-utils.ANGLETOL ||
			(math.Abs(theta-bestAngle) <= utils.ANGLETOL && lessCandidate(c, best)) {
			best, bestAngle, ok = c, theta, true
		}
	}
	if !ok {
		return DirectEdgeSelector{}.Select(current, edge, cands)
	}
	return
}
