// Package geometry3D holds the 3D primitives used by the foam engine: points
// are gonum r3.Vec values, integer Translations count periodic unit cells and
// an OOBox describes the (possibly skewed) periodic domain.
package geometry3D

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Translation is a number of unit cells along each of the three domain
// basis vectors.
type Translation [3]int

func (a Translation) Add(b Translation) Translation {
	return Translation{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Translation) Sub(b Translation) Translation {
	return Translation{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (a Translation) Neg() Translation {
	return Translation{-a[0], -a[1], -a[2]}
}

func (a Translation) IsZero() bool {
	return a[0] == 0 && a[1] == 0 && a[2] == 0
}

// ToVec converts the integer translation to lattice coordinates.
func (a Translation) ToVec() r3.Vec {
	return r3.Vec{X: float64(a[0]), Y: float64(a[1]), Z: float64(a[2])}
}

// FuzzyEqual reports whether a and b are within tol of each other, relative
// to the larger of the two magnitudes (and absolute below magnitude 1).
func FuzzyEqual(a, b r3.Vec, tol float64) bool {
	scale := math.Max(1, math.Max(r3.Norm(a), r3.Norm(b)))
	return r3.Norm(r3.Sub(a, b)) <= tol*scale
}

// IsZeroVec reports whether v has zero length within tol.
func IsZeroVec(v r3.Vec, tol float64) bool {
	return r3.Norm(v) <= tol
}

// Angle returns the angle in radians between a and b, in [0, pi]. A zero
// length input gives an angle of zero.
func Angle(a, b r3.Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	c := r3.Dot(a, b) / (na * nb)
	// acos is undefined outside [-1,1], rounding can push us there
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c)
}

// Centroid returns the average of the points, the zero vector when empty.
func Centroid(pts []r3.Vec) (c r3.Vec) {
	if len(pts) == 0 {
		return
	}
	for _, p := range pts {
		c = r3.Add(c, p)
	}
	return r3.Scale(1/float64(len(pts)), c)
}

// EmptyBox returns an inverted box that any ExtendBox call will replace.
func EmptyBox() r3.Box {
	inf := math.Inf(1)
	return r3.Box{
		Min: r3.Vec{X: inf, Y: inf, Z: inf},
		Max: r3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// ExtendBox grows b to contain p.
func ExtendBox(b r3.Box, p r3.Vec) r3.Box {
	b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
	b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	return b
}

// BoxOf returns the axis aligned bounding box of the points.
func BoxOf(pts []r3.Vec) r3.Box {
	b := EmptyBox()
	for _, p := range pts {
		b = ExtendBox(b, p)
	}
	return b
}

// ReflectAcrossPlane mirrors p across the plane through origin with the
// given (not necessarily unit) normal.
func ReflectAcrossPlane(p, origin, normal r3.Vec) r3.Vec {
	n2 := r3.Norm2(normal)
	if n2 == 0 {
		return p
	}
	d := r3.Dot(r3.Sub(p, origin), normal) / n2
	return r3.Sub(p, r3.Scale(2*d, normal))
}

// ReflectAcrossLine mirrors p across the line through a and b. Used for 2D
// boundaries, the line direction is taken as is.
func ReflectAcrossLine(p, a, b r3.Vec) r3.Vec {
	dir := r3.Sub(b, a)
	l2 := r3.Norm2(dir)
	if l2 == 0 {
		return p
	}
	ap := r3.Sub(p, a)
	foot := r3.Add(a, r3.Scale(r3.Dot(ap, dir)/l2, dir))
	return r3.Sub(r3.Scale(2, foot), p)
}
