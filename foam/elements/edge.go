package elements

import (
	"fmt"

	"github.com/notargets/gofoam/geometry3D"
	"github.com/notargets/gofoam/types"
	"gonum.org/v1/gonum/spatial/r3"
)

type CurveKind uint8

const (
	StraightCurve CurveKind = iota
	QuadraticCurve
	ApproximatedCurve
)

func (ck CurveKind) String() string {
	return [...]string{"straight", "quadratic", "approximated"}[ck]
}

// DefaultQuadraticSegments is the number of segments a quadratic edge is
// sampled with when no other value is configured.
const DefaultQuadraticSegments = 10

// Curve is the shape of an edge between its end points. It is one of
// Straight, Quadratic or Approximated.
type Curve interface {
	Kind() CurveKind
}

type Straight struct{}

// Quadratic edges pass through Middle, which lies in the same periodic cell
// as the edge's begin vertex.
type Quadratic struct {
	Middle   *Vertex
	Segments int
}

// Approximated edges follow a constraint, sampled by the interior Points
// expressed in the cell of the begin vertex.
type Approximated struct {
	Points []r3.Vec
}

func (Straight) Kind() CurveKind     { return StraightCurve }
func (Quadratic) Kind() CurveKind    { return QuadraticCurve }
func (Approximated) Kind() CurveKind { return ApproximatedCurve }

/*
Edge joins begin to end. When the edge crosses a periodic boundary, end is stored at its position
in its own cell and endTranslation counts the cells separating it from begin, so that
Point(last) == end.Position() + domain.Translate(endTranslation).
*/
type Edge struct {
	id             int
	begin, end     *Vertex
	endTranslation geometry3D.Translation
	endPosition    r3.Vec
	curve          Curve
	attributes     Attributes
	status         types.DuplicateStatus
	original       *Edge
	translation    geometry3D.Translation
	adjacent       []AdjacentOrientedFace
	points         []r3.Vec // interpolation cache
}

func NewEdge(id int, begin, end *Vertex, endTranslation geometry3D.Translation,
	domain geometry3D.OOBox, curve Curve, attributes Attributes) *Edge {
	if curve == nil {
		curve = Straight{}
	}
	return &Edge{
		id:             id,
		begin:          begin,
		end:            end,
		endTranslation: endTranslation,
		endPosition:    domain.Translate(end.Position(), endTranslation),
		curve:          curve,
		attributes:     attributes,
	}
}

// NewDuplicate creates the image of the receiver's original translated by t.
// begin and end are the translated vertices, curve the translated shape.
// Duplicates never cross a periodic boundary.
func (e *Edge) NewDuplicate(t geometry3D.Translation, begin, end *Vertex, curve Curve) *Edge {
	root := e.Root()
	if curve == nil {
		curve = Straight{}
	}
	return &Edge{
		id:          root.id,
		begin:       begin,
		end:         end,
		endPosition: end.Position(),
		curve:       curve,
		attributes:  root.attributes.Copy(),
		status:      types.Duplicate,
		original:    root,
		translation: t,
	}
}

func (e *Edge) ID() int                                { return e.id }
func (e *Edge) Begin() *Vertex                         { return e.begin }
func (e *Edge) End() *Vertex                           { return e.end }
func (e *Edge) BeginPosition() r3.Vec                  { return e.begin.Position() }
func (e *Edge) EndPosition() r3.Vec                    { return e.endPosition }
func (e *Edge) EndTranslation() geometry3D.Translation { return e.endTranslation }
func (e *Edge) Curve() Curve                           { return e.curve }
func (e *Edge) Attributes() Attributes                 { return e.attributes }
func (e *Edge) Status() types.DuplicateStatus          { return e.status }
func (e *Edge) IsDuplicate() bool                      { return e.status == types.Duplicate }
func (e *Edge) Translation() geometry3D.Translation    { return e.translation }
func (e *Edge) IsPeriodic() bool                       { return !e.endTranslation.IsZero() }

func (e *Edge) Root() *Edge {
	if e.original != nil {
		return e.original
	}
	return e
}

// Points returns the interpolated polyline from begin to end, both included.
func (e *Edge) Points() []r3.Vec {
	if e.points != nil {
		return e.points
	}
	b, en := e.BeginPosition(), e.EndPosition()
	switch c := e.curve.(type) {
	case Quadratic:
		n := c.Segments
		if n < 2 {
			n = DefaultQuadraticSegments
		}
		m := c.Middle.Position()
		e.points = make([]r3.Vec, 0, n+1)
		for i := 0; i <= n; i++ {
			t := float64(i) / float64(n)
			// Lagrange basis through t = 0, 1/2, 1
			p := r3.Scale((1-t)*(1-2*t), b)
			p = r3.Add(p, r3.Scale(4*t*(1-t), m))
			p = r3.Add(p, r3.Scale(t*(2*t-1), en))
			e.points = append(e.points, p)
		}
		// the end points are exact, not interpolated
		e.points[0], e.points[n] = b, en
	case Approximated:
		e.points = make([]r3.Vec, 0, len(c.Points)+2)
		e.points = append(e.points, b)
		e.points = append(e.points, c.Points...)
		e.points = append(e.points, en)
	default:
		e.points = []r3.Vec{b, en}
	}
	return e.points
}

func (e *Edge) PointCount() int    { return len(e.Points()) }
func (e *Edge) Point(i int) r3.Vec { return e.Points()[i] }

// Length is the length of the interpolated polyline.
func (e *Edge) Length() (l float64) {
	pts := e.Points()
	for i := 1; i < len(pts); i++ {
		l += r3.Norm(r3.Sub(pts[i], pts[i-1]))
	}
	return
}

// AddAdjacentOrientedFace records, on the original edge, that an oriented
// face uses this edge.
func (e *Edge) AddAdjacentOrientedFace(aof AdjacentOrientedFace) {
	root := e.Root()
	root.adjacent = append(root.adjacent, aof)
}

func (e *Edge) AdjacentOrientedFaces() []AdjacentOrientedFace { return e.Root().adjacent }

// ClearAdjacency drops the adjacency registered on the original edge.
func (e *Edge) ClearAdjacency() { e.Root().adjacent = nil }

// AdjacentFaceCount counts the distinct original faces touching the edge.
func (e *Edge) AdjacentFaceCount() int {
	seen := make(map[*Face]struct{})
	for _, aof := range e.AdjacentOrientedFaces() {
		seen[aof.Face.Root()] = struct{}{}
	}
	return len(seen)
}

// IsPhysical is true for Plateau borders: in 3D edges where at least three
// faces meet, in 2D every edge.
func (e *Edge) IsPhysical(is2D bool) bool {
	if is2D {
		return true
	}
	return e.AdjacentFaceCount() >= 3
}

func (e *Edge) String() string {
	b, en := e.BeginPosition(), e.EndPosition()
	return fmt.Sprintf("Edge{%d %s %s (%g,%g,%g)->(%g,%g,%g) t%v}", e.id, e.status, e.curve.Kind(),
		b.X, b.Y, b.Z, en.X, en.Y, en.Z, e.endTranslation)
}
