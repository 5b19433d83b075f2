package DG1D

import (
	"math"

	"github.com/notargets/elasticlf4/utils"
)

// MassMatrix is the reference element mass matrix, inv(V*V^T)
func (el *Elements1D) MassMatrix() (Mref utils.Matrix) {
	var err error
	if Mref, err = el.V.Mul(el.V.Transpose()).Inverse(); err != nil {
		panic(err)
	}
	return
}

// ElementMass returns one Np x Np block per element, J_k * Mref
func (el *Elements1D) ElementMass() (blocks []utils.Matrix) {
	var (
		Mref = el.MassMatrix()
	)
	blocks = make([]utils.Matrix, el.K)
	for k := 0; k < el.K; k++ {
		blocks[k] = Mref.Copy().Scale(el.J.At(0, k))
	}
	return
}

// Stiffness is the reference matrix S(i,j) = integral of l_i' * l_j over [-1,1].
// It is independent of the element size in 1D.
func (el *Elements1D) Stiffness() (Sref utils.Matrix) {
	return el.Dr.Transpose().Mul(el.MassMatrix())
}

func (el *Elements1D) MinNodeSpacing() (xmin float64) {
	xmin = math.MaxFloat64
	for k := 0; k < el.K; k++ {
		for i := 1; i < el.Np; i++ {
			if dx := math.Abs(el.X.At(i, k) - el.X.At(i-1, k)); dx < xmin {
				xmin = dx
			}
		}
	}
	return
}

// Interpolate evaluates f at every node, returning an Np x K field
func (el *Elements1D) Interpolate(f func(x float64) float64) (F utils.Matrix) {
	F = el.X.Copy().Apply(f)
	return
}
