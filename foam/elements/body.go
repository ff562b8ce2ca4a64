package elements

import (
	"fmt"
	"math"

	"github.com/notargets/gofoam/geometry3D"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

type BodyScalar uint8

const (
	PressureScalar BodyScalar = iota
	TargetVolumeScalar
	ActualVolumeScalar
	VolumeScalar
	AreaScalar
	GrowthRateScalar
	SidesScalar
	DeformationSimpleScalar
	DeformationEigenScalar
	VolumeChangeRateScalar
	VelocityMagnitudeScalar
	bodyScalarCount
)

var bodyScalarNames = [...]string{
	"pressure", "target_volume", "actual_volume", "volume", "area", "growth_rate",
	"sides", "deformation_simple", "deformation_eigen", "volume_change_rate", "velocity_magnitude",
}

func (bs BodyScalar) String() string {
	if bs >= bodyScalarCount {
		return "unknown"
	}
	return bodyScalarNames[bs]
}

func NewBodyScalar(name string) (BodyScalar, error) {
	for i, n := range bodyScalarNames {
		if n == name {
			return BodyScalar(i), nil
		}
	}
	return 0, fmt.Errorf("unknown body scalar %q", name)
}

// Deformation is the shape tensor of a body and its eigen decomposition,
// eigenvalues ordered from largest to smallest.
type Deformation struct {
	Tensor       *mat.SymDense
	EigenValues  [3]float64
	EigenVectors [3]r3.Vec
	Simple       float64
	Is2D         bool
}

// EigenScalar is (λmax-λmin)/λmax, using the two in-plane eigenvalues in 2D.
// An all zero tensor has scalar 0.
func (d Deformation) EigenScalar() float64 {
	lmax, lmin := d.EigenValues[0], d.EigenValues[2]
	if d.Is2D {
		lmin = d.EigenValues[1]
	}
	if math.Abs(lmax) < 1.e-12 {
		return 0
	}
	return (lmax - lmin) / lmax
}

// Rotated returns R T Rᵀ.
func (d Deformation) Rotated(r mat.Matrix) *mat.Dense {
	var tmp, out mat.Dense
	tmp.Mul(r, d.Tensor)
	out.Mul(&tmp, r.T())
	return &out
}

/*
Body is a bubble. In 3D it is bounded by oriented faces, in 2D it is a single oriented face.
Unwrapping replaces the oriented faces' targets with translated duplicates so that the body
becomes a connected, non periodic solid.
*/
type Body struct {
	id         int
	faces      []*OrientedFace
	attributes Attributes
	object     bool

	center r3.Vec
	area   float64
	volume float64

	pressure, targetVolume, actualVolume float64
	deduced                              [bodyScalarCount]bool
	hasFreeFace                          bool
	neighbors                            []Neighbor
	growthRate                           float64
	deformation                          Deformation
	velocity                             r3.Vec
	volumeChangeRate                     float64
	unwrapErr                            error
}

func NewBody(id int, faces []*OrientedFace, attributes Attributes, object bool) *Body {
	return &Body{
		id:         id,
		faces:      faces,
		attributes: attributes,
		object:     object,
	}
}

func (b *Body) ID() int                          { return b.id }
func (b *Body) Attributes() Attributes           { return b.attributes }
func (b *Body) IsObject() bool                   { return b.object }
func (b *Body) FaceCount() int                   { return len(b.faces) }
func (b *Body) OrientedFace(i int) *OrientedFace { return b.faces[i] }
func (b *Body) OrientedFaces() []*OrientedFace   { return b.faces }
func (b *Body) Is2D() bool                       { return len(b.faces) <= 1 }

// Vertices returns the distinct vertices of the body in face order.
func (b *Body) Vertices() []*Vertex {
	var (
		seen = make(map[*Vertex]struct{})
		vs   []*Vertex
	)
	for _, of := range b.faces {
		for _, v := range of.Face().Vertices() {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				vs = append(vs, v)
			}
		}
	}
	return vs
}

// Edges returns the distinct edges of the body in face order.
func (b *Body) Edges() []*Edge {
	var (
		seen = make(map[*Edge]struct{})
		es   []*Edge
	)
	for _, of := range b.faces {
		for _, oe := range of.Face().OrientedEdges() {
			if _, ok := seen[oe.Edge()]; !ok {
				seen[oe.Edge()] = struct{}{}
				es = append(es, oe.Edge())
			}
		}
	}
	return es
}

// SetGeometry stores the body center, its surface area (perimeter in 2D)
// and its volume (area in 2D).
func (b *Body) SetGeometry(center r3.Vec, area, volume float64) {
	b.center, b.area, b.volume = center, area, volume
}

func (b *Body) Center() r3.Vec  { return b.center }
func (b *Body) Area() float64   { return b.area }
func (b *Body) Volume() float64 { return b.volume }

func (b *Body) SetPressure(p float64, deduced bool) {
	b.pressure, b.deduced[PressureScalar] = p, deduced
}

func (b *Body) SetTargetVolume(v float64, deduced bool) {
	b.targetVolume, b.deduced[TargetVolumeScalar] = v, deduced
}

func (b *Body) SetActualVolume(v float64, deduced bool) {
	b.actualVolume, b.deduced[ActualVolumeScalar] = v, deduced
}

func (b *Body) Pressure() float64     { return b.pressure }
func (b *Body) TargetVolume() float64 { return b.targetVolume }
func (b *Body) ActualVolume() float64 { return b.actualVolume }

// IsDeduced reports whether a scalar was computed rather than read.
func (b *Body) IsDeduced(bs BodyScalar) bool { return b.deduced[bs] }

func (b *Body) SetNeighbors(ns []Neighbor, hasFreeFace bool) {
	b.neighbors, b.hasFreeFace = ns, hasFreeFace
}

func (b *Body) Neighbors() []Neighbor { return b.neighbors }
func (b *Body) HasFreeFace() bool     { return b.hasFreeFace }

func (b *Body) SetGrowthRate(g float64)       { b.growthRate = g }
func (b *Body) GrowthRate() float64           { return b.growthRate }
func (b *Body) SetDeformation(d Deformation)  { b.deformation = d }
func (b *Body) Deformation() Deformation      { return b.deformation }
func (b *Body) SetVelocity(v r3.Vec)          { b.velocity = v }
func (b *Body) Velocity() r3.Vec              { return b.velocity }
func (b *Body) SetVolumeChangeRate(r float64) { b.volumeChangeRate = r }
func (b *Body) VolumeChangeRate() float64     { return b.volumeChangeRate }
func (b *Body) SetUnwrapError(err error)      { b.unwrapErr = err }
func (b *Body) UnwrapError() error            { return b.unwrapErr }

// Scalar returns a per body value by name, used for statistics and output.
func (b *Body) Scalar(bs BodyScalar) float64 {
	switch bs {
	case PressureScalar:
		return b.pressure
	case TargetVolumeScalar:
		return b.targetVolume
	case ActualVolumeScalar:
		return b.actualVolume
	case VolumeScalar:
		return b.volume
	case AreaScalar:
		return b.area
	case GrowthRateScalar:
		return b.growthRate
	case SidesScalar:
		return float64(len(b.neighbors))
	case DeformationSimpleScalar:
		return b.deformation.Simple
	case DeformationEigenScalar:
		return b.deformation.EigenScalar()
	case VolumeChangeRateScalar:
		return b.volumeChangeRate
	case VelocityMagnitudeScalar:
		return r3.Norm(b.velocity)
	default:
		panic(fmt.Errorf("unknown body scalar %d", bs))
	}
}

// CenterIn returns the body center in the periodic image t, used when
// comparing bodies across periodic images.
func (b *Body) CenterIn(domain geometry3D.OOBox, t geometry3D.Translation) r3.Vec {
	return domain.Translate(b.center, t)
}

func (b *Body) String() string {
	return fmt.Sprintf("Body{%d faces:%d volume:%g}", b.id, len(b.faces), b.volume)
}
