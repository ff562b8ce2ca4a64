// Package properties derives per body quantities from unwrapped bodies:
// geometry, neighbors, growth rate, deformation, pressure and volume
// bookkeeping, and the topological changes between time steps.
package properties

import (
	"math"

	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/geometry3D"
	"gonum.org/v1/gonum/spatial/r3"
)

// CalculateCenter is the average of the distinct vertices of the body.
func CalculateCenter(b *elements.Body) r3.Vec {
	vs := b.Vertices()
	pts := make([]r3.Vec, len(vs))
	for i, v := range vs {
		pts[i] = v.Position()
	}
	return geometry3D.Centroid(pts)
}

/*
CalculateVolume returns the volume enclosed by an unwrapped 3D body, summing the signed volumes of
the tetrahedra joining the body center to a fan triangulation of each face. A body whose faces are
oriented with outward normals has a positive volume. For a 2D body it returns the signed area of the
face polygon, positive when wound counter clockwise.
*/
func CalculateVolume(b *elements.Body) float64 {
	if b.Is2D() {
		return signedArea(b.OrientedFace(0).Points())
	}
	var (
		r   = CalculateCenter(b)
		vol float64
	)
	for _, of := range b.OrientedFaces() {
		pts := of.Points()
		fc := r3.Sub(geometry3D.Centroid(pts), r)
		for i := range pts {
			a, c := r3.Sub(pts[i], r), r3.Sub(pts[(i+1)%len(pts)], r)
			vol += r3.Dot(fc, r3.Cross(a, c))
		}
	}
	return vol / 6
}

// shoelace formula in the xy plane
func signedArea(pts []r3.Vec) (area float64) {
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		area += p.X*q.Y - q.X*p.Y
	}
	return area / 2
}

// CalculateArea is the surface area of a 3D body, the perimeter of a 2D one.
func CalculateArea(b *elements.Body) (area float64) {
	if b.Is2D() {
		return b.OrientedFace(0).Perimeter()
	}
	for _, of := range b.OrientedFaces() {
		area += of.Area()
	}
	return
}

// CalculateGeometry stores center, area and volume on the body.
func CalculateGeometry(b *elements.Body) {
	vol := CalculateVolume(b)
	if math.IsNaN(vol) {
		vol = 0
	}
	b.SetGeometry(CalculateCenter(b), CalculateArea(b), vol)
}
