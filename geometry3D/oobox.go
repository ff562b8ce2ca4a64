package geometry3D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// OOBox is the unit cell of a periodic (torus) domain, spanned by three
// possibly skewed basis vectors. The zero value is a non periodic domain:
// every translation maps a point onto itself.
type OOBox struct {
	X, Y, Z  r3.Vec
	inverse  [9]float64 // row major inverse of the column basis [X Y Z]
	periodic bool
}

// NewOOBox builds the domain from its three basis vectors. A degenerate
// (coplanar or zero) basis yields a non periodic domain.
func NewOOBox(x, y, z r3.Vec) (b OOBox) {
	b = OOBox{X: x, Y: y, Z: z}
	A := mat.NewDense(3, 3, []float64{
		x.X, y.X, z.X,
		x.Y, y.Y, z.Y,
		x.Z, y.Z, z.Z,
	})
	scale := r3.Norm(x) * r3.Norm(y) * r3.Norm(z)
	if scale == 0 || math.Abs(mat.Det(A)) <= 1.e-12*scale {
		return
	}
	var inv mat.Dense
	if err := inv.Inverse(A); err != nil {
		// mat.Condition only warns about accuracy, anything else is singular
		if _, ok := err.(mat.Condition); !ok {
			return
		}
	}
	copy(b.inverse[:], inv.RawMatrix().Data)
	b.periodic = true
	return
}

// NewOOBox2D builds a domain from the two in-plane periods of a 2D foam. The
// third vector is the cross product of the two, scaled to the length of the
// shorter one.
func NewOOBox2D(x, y r3.Vec) OOBox {
	n := r3.Cross(x, y)
	nn := r3.Norm(n)
	if nn == 0 {
		return NewOOBox(x, y, r3.Vec{})
	}
	l := math.Min(r3.Norm(x), r3.Norm(y))
	return NewOOBox(x, y, r3.Scale(l/nn, n))
}

// NewOOBoxFromPeriods accepts the PERIODS block as parsed: two or three
// vectors. Anything else is an error.
func NewOOBoxFromPeriods(periods [][3]float64) (OOBox, error) {
	toVec := func(p [3]float64) r3.Vec { return r3.Vec{X: p[0], Y: p[1], Z: p[2]} }
	switch len(periods) {
	case 0:
		return OOBox{}, nil
	case 2:
		return NewOOBox2D(toVec(periods[0]), toVec(periods[1])), nil
	case 3:
		return NewOOBox(toVec(periods[0]), toVec(periods[1]), toVec(periods[2])), nil
	default:
		return OOBox{}, fmt.Errorf("periods must have 2 or 3 vectors, have %d", len(periods))
	}
}

// IsPeriodic is false for the zero value and for degenerate bases.
func (b OOBox) IsPeriodic() bool { return b.periodic }

// TranslationVec returns the displacement i*X + j*Y + k*Z for t = (i,j,k).
func (b OOBox) TranslationVec(t Translation) r3.Vec {
	if t.IsZero() {
		return r3.Vec{}
	}
	v := r3.Scale(float64(t[0]), b.X)
	v = r3.Add(v, r3.Scale(float64(t[1]), b.Y))
	return r3.Add(v, r3.Scale(float64(t[2]), b.Z))
}

// Translate moves p by t unit cells.
func (b OOBox) Translate(p r3.Vec, t Translation) r3.Vec {
	return r3.Add(p, b.TranslationVec(t))
}

// LatticeCoordinates expresses d in the basis of the domain.
func (b OOBox) LatticeCoordinates(d r3.Vec) r3.Vec {
	m := b.inverse
	return r3.Vec{
		X: m[0]*d.X + m[1]*d.Y + m[2]*d.Z,
		Y: m[3]*d.X + m[4]*d.Y + m[5]*d.Z,
		Z: m[6]*d.X + m[7]*d.Y + m[8]*d.Z,
	}
}

// GetTranslation finds the integer translation t with Translate(from, t)
// closest to `to`. ok reports whether the translated point actually lands on
// `to` within tol, i.e. whether `to` is a periodic image of `from`.
func (b OOBox) GetTranslation(from, to r3.Vec, tol float64) (t Translation, ok bool) {
	if !b.periodic {
		return t, FuzzyEqual(from, to, tol)
	}
	c := b.LatticeCoordinates(r3.Sub(to, from))
	t = Translation{int(math.Round(c.X)), int(math.Round(c.Y)), int(math.Round(c.Z))}
	return t, FuzzyEqual(b.Translate(from, t), to, tol)
}

// MinimumImage returns the periodic image of displacement d with the
// smallest lattice coordinates, each in [-0.5, 0.5].
func (b OOBox) MinimumImage(d r3.Vec) r3.Vec {
	if !b.periodic {
		return d
	}
	c := b.LatticeCoordinates(d)
	t := Translation{-int(math.Round(c.X)), -int(math.Round(c.Y)), -int(math.Round(c.Z))}
	return b.Translate(d, t)
}

// Cell returns the unit cell containing p, cells are counted from the origin.
func (b OOBox) Cell(p r3.Vec) (t Translation) {
	if !b.periodic {
		return
	}
	c := b.LatticeCoordinates(p)
	return Translation{int(math.Floor(c.X)), int(math.Floor(c.Y)), int(math.Floor(c.Z))}
}

func (b OOBox) String() string {
	if !b.periodic {
		return "OOBox{non periodic}"
	}
	return fmt.Sprintf("OOBox{X:%v Y:%v Z:%v}", b.X, b.Y, b.Z)
}
