package properties

import (
	"math"
	"sort"

	"github.com/notargets/gofoam/foam/elements"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// DeformationTensor is the second moment of the vertices of b about its
// center, (1/n) Σ (v-c)(v-c)ᵀ. A 2D body has a zero third row and column.
func DeformationTensor(b *elements.Body) *mat.SymDense {
	var (
		vs = b.Vertices()
		c  = b.Center()
		T  = mat.NewSymDense(3, nil)
	)
	if len(vs) == 0 {
		return T
	}
	for _, v := range vs {
		d := r3.Sub(v.Position(), c)
		x := mat.NewVecDense(3, []float64{d.X, d.Y, d.Z})
		T.SymRankOne(T, 1, x)
	}
	T.ScaleSym(1/float64(len(vs)), T)
	return T
}

/*
CalculateDeformationTensor stores the deformation of b: the tensor, its eigenvalues from largest to
smallest with their unit eigenvectors, and the simple deformation measure, area/volume^(2/3) in 3D
and perimeter/sqrt(area) in 2D. Eigenvalues that round below zero are clamped to zero, a degenerate
body gets a zero deformation rather than NaNs.
*/
func CalculateDeformationTensor(b *elements.Body) {
	T := DeformationTensor(b)
	d := elements.Deformation{Tensor: T, Is2D: b.Is2D()}

	var eig mat.EigenSym
	if ok := eig.Factorize(T, true); ok {
		vals := eig.Values(nil)
		var vecs mat.Dense
		eig.VectorsTo(&vecs)
		order := []int{0, 1, 2}
		sort.SliceStable(order, func(i, j int) bool { return vals[order[i]] > vals[order[j]] })
		scale := math.Max(math.Abs(vals[order[0]]), 1)
		for i, k := range order {
			lambda := vals[k]
			if lambda < 0 && -lambda <= 1.e-12*scale {
				lambda = 0
			}
			d.EigenValues[i] = lambda
			d.EigenVectors[i] = r3.Vec{X: vecs.At(0, k), Y: vecs.At(1, k), Z: vecs.At(2, k)}
		}
	}
	d.Simple = simpleDeformation(b)
	b.SetDeformation(d)
}

func simpleDeformation(b *elements.Body) float64 {
	vol, area := b.Volume(), b.Area()
	if vol <= 0 {
		return 0
	}
	if b.Is2D() {
		return area / math.Sqrt(vol)
	}
	return area / math.Pow(vol, 2./3.)
}
