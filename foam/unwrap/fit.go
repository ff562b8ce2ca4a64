package unwrap

import (
	"math"

	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/geometry3D"
	"github.com/notargets/gofoam/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// Candidate is an unplaced oriented face of a body that can be glued to a
// placed one along a shared edge, once moved by Translation.
type Candidate struct {
	Slot        int
	Face        *elements.OrientedFace
	EdgeIndex   int
	Translation geometry3D.Translation
}

// Normal of the candidate, translation does not change it.
func (c Candidate) Normal() r3.Vec { return c.Face.Normal() }

// Edge is the candidate's copy of the shared edge, at its untranslated position.
func (c Candidate) Edge() elements.OrientedEdge { return c.Face.OrientedEdge(c.EdgeIndex) }

type Fitter struct {
	Domain geometry3D.OOBox
	Tol    float64
}

/*
FitFace looks for edge in candidate. A match is an edge with the same original traversed the other
way, since two faces of a body run along a shared edge in opposite senses, whose two ends land on the
ends of edge after one periodic translation. It returns that translation and the matching edge index.
*/
func (ft Fitter) FitFace(candidate *elements.OrientedFace, edge elements.OrientedEdge) (t geometry3D.Translation,
	edgeIndex int, ok bool) {
	for i := 0; i < candidate.EdgeCount(); i++ {
		coe := candidate.OrientedEdge(i)
		if !coe.SameEdge(edge) || coe.IsReversed() == edge.IsReversed() {
			continue
		}
		if t, ok = ft.Domain.GetTranslation(coe.BeginPosition(), edge.EndPosition(), ft.Tol); !ok {
			continue
		}
		if geometry3D.FuzzyEqual(ft.Domain.Translate(coe.EndPosition(), t), edge.BeginPosition(), ft.Tol) {
			return t, i, true
		}
	}
	return geometry3D.Translation{}, elements.Unknown, false
}

// Candidates lists every way an unplaced face of body fits edge edgeIndex of
// the placed face in slot. A face is never glued to its own other side.
func (ft Fitter) Candidates(body *elements.Body, placed []bool, slot, edgeIndex int) (cands []Candidate) {
	current := body.OrientedFace(slot)
	edge := current.OrientedEdge(edgeIndex)
	for s, of := range body.OrientedFaces() {
		if placed[s] {
			continue
		}
		t, i, ok := ft.FitFace(of, edge)
		if !ok {
			continue
		}
		if of.Face().Root() == current.Face().Root() &&
			of.Face().Translation().Add(t) == current.Face().Translation() {
			continue
		}
		cands = append(cands, Candidate{Slot: s, Face: of, EdgeIndex: i, Translation: t})
	}
	return
}

/*
IsValidNext checks that next can follow current across edge on a convex stretch of the body
surface: the normals are less than a right angle apart (up to utils.ANGLETOL, so cube corners pass)
and their cross product runs along the edge. Coplanar faces pass.
*/
func IsValidNext(current *elements.OrientedFace, next Candidate, edge elements.OrientedEdge) bool {
	nc, nn := current.Normal(), next.Normal()
	if geometry3D.Angle(nc, nn) >= math.Pi/2+utils.ANGLETOL {
		return false
	}
	axis := r3.Cross(nc, nn)
	if r3.Norm(axis) < utils.ANGLETOL {
		return true
	}
	return r3.Dot(axis, edge.Direction()) > 0
}

/*
TurningAngle measures how far the candidate is rotated from the current face around the shared
edge, going through the inside of the body. Both faces are represented by the unit vector lying in
the face, perpendicular to the edge and pointing into the face. The result is in [0, 2π); zero
means the candidate lies on top of the current face.
*/
func TurningAngle(current *elements.OrientedFace, next Candidate, edge elements.OrientedEdge) float64 {
	e := edge.Direction()
	if n := r3.Norm(e); n > 0 {
		e = r3.Scale(1/n, e)
	}
	ce := next.Edge().Direction()
	if n := r3.Norm(ce); n > 0 {
		ce = r3.Scale(1/n, ce)
	}
	dc := r3.Cross(current.Normal(), e)
	dn := r3.Cross(next.Normal(), ce)
	theta := math.Atan2(r3.Dot(r3.Cross(dc, dn), r3.Scale(-1, e)), r3.Dot(dc, dn))
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}
