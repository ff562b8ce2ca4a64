package geometry3D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestOOBox(t *testing.T) {
	skew := NewOOBox(
		r3.Vec{X: 2},
		r3.Vec{X: 0.5, Y: 1.5},
		r3.Vec{X: 0.25, Y: 0.1, Z: 3},
	)
	require.True(t, skew.IsPeriodic())
	{ // Translate along each basis vector
		p := r3.Vec{X: 0.1, Y: 0.2, Z: 0.3}
		assert.Equal(t, r3.Add(p, skew.X), skew.Translate(p, Translation{1, 0, 0}))
		assert.True(t, FuzzyEqual(r3.Sub(p, skew.Y), skew.Translate(p, Translation{0, -1, 0}), 1.e-12))
		assert.Equal(t, p, skew.Translate(p, Translation{}))
	}
	{ // Translation composition
		p := r3.Vec{X: -1.3, Y: 0.7, Z: 2.2}
		ts := []Translation{{1, 0, 0}, {0, -2, 1}, {3, 1, -1}, {-1, -1, -1}}
		for _, a := range ts {
			for _, b := range ts {
				lhs := skew.Translate(skew.Translate(p, a), b)
				rhs := skew.Translate(p, a.Add(b))
				assert.True(t, FuzzyEqual(lhs, rhs, 1.e-12), "a=%v b=%v", a, b)
			}
		}
	}
	{ // Inferred translations
		from := r3.Vec{X: 0.3, Y: 0.3, Z: 0.3}
		for _, want := range []Translation{{0, 0, 0}, {1, 0, 0}, {-2, 1, 3}} {
			got, ok := skew.GetTranslation(from, skew.Translate(from, want), 1.e-9)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		}
		_, ok := skew.GetTranslation(from, r3.Add(from, r3.Vec{X: 0.5}), 1.e-9)
		assert.False(t, ok)
	}
	{ // Cells
		assert.Equal(t, Translation{0, 0, 0}, skew.Cell(r3.Vec{X: 0.1, Y: 0.1, Z: 0.1}))
		assert.Equal(t, Translation{1, 0, 0}, skew.Cell(r3.Vec{X: 2.1, Y: 0.1, Z: 0.1}))
	}
}

func TestOOBoxDegenerate(t *testing.T) {
	var none OOBox
	assert.False(t, none.IsPeriodic())
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	tr, ok := none.GetTranslation(p, p, 1.e-9)
	assert.True(t, ok)
	assert.True(t, tr.IsZero())
	_, ok = none.GetTranslation(p, r3.Vec{}, 1.e-9)
	assert.False(t, ok)

	flat := NewOOBox(r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{X: 1, Y: 1})
	assert.False(t, flat.IsPeriodic())
}

func TestOOBox2D(t *testing.T) {
	b := NewOOBox2D(r3.Vec{X: 4}, r3.Vec{Y: 2})
	require.True(t, b.IsPeriodic())
	assert.InDelta(t, 2., r3.Norm(b.Z), 1.e-12)
	assert.InDelta(t, 1., r3.Unit(b.Z).Z, 1.e-12)

	b2, err := NewOOBoxFromPeriods([][3]float64{{4, 0, 0}, {0, 2, 0}})
	require.NoError(t, err)
	assert.Equal(t, b.Z, b2.Z)
	_, err = NewOOBoxFromPeriods([][3]float64{{1, 0, 0}})
	assert.Error(t, err)
}

func TestVectorHelpers(t *testing.T) {
	assert.InDelta(t, math.Pi/2, Angle(r3.Vec{X: 1}, r3.Vec{Y: 3}), 1.e-12)
	assert.InDelta(t, math.Pi, Angle(r3.Vec{X: 1}, r3.Vec{X: -1}), 1.e-12)
	assert.Equal(t, 0., Angle(r3.Vec{}, r3.Vec{Y: 3}))

	tr := Translation{1, -2, 3}
	assert.True(t, tr.Add(tr.Neg()).IsZero())
	assert.Equal(t, Translation{0, -4, 6}, tr.Sub(Translation{1, 2, -3}))

	box := BoxOf([]r3.Vec{{X: 1, Y: -1}, {Z: 2}, {X: -3, Y: 4}})
	assert.Equal(t, r3.Vec{X: -3, Y: -1, Z: 0}, box.Min)
	assert.Equal(t, r3.Vec{X: 1, Y: 4, Z: 2}, box.Max)

	mirror := ReflectAcrossPlane(r3.Vec{X: 1, Y: 1, Z: 3}, r3.Vec{Z: 1}, r3.Vec{Z: 2})
	assert.True(t, FuzzyEqual(r3.Vec{X: 1, Y: 1, Z: -1}, mirror, 1.e-12))
	mirror = ReflectAcrossLine(r3.Vec{X: 1, Y: 2}, r3.Vec{}, r3.Vec{X: 5})
	assert.True(t, FuzzyEqual(r3.Vec{X: 1, Y: -2}, mirror, 1.e-12))
}

func TestMinimumImage(t *testing.T) {
	b := NewOOBox(r3.Vec{X: 2}, r3.Vec{Y: 2}, r3.Vec{Z: 2})
	d := b.MinimumImage(r3.Vec{X: 1.8, Y: -1.5, Z: 0.2})
	assert.True(t, FuzzyEqual(r3.Vec{X: -0.2, Y: 0.5, Z: 0.2}, d, 1.e-12))
	// non periodic domains leave displacements alone
	var open OOBox
	assert.Equal(t, r3.Vec{X: 1.8}, open.MinimumImage(r3.Vec{X: 1.8}))
}
