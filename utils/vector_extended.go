package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V     *mat.VecDense
	DataP []float64
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			panic(fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v", n, len(dataO[0])))
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	return Vector{V: v, DataP: v.RawVector().Data}
}

func NewVectorConstant(n int, val float64) Vector {
	return NewVector(n, ConstArray(n, val))
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.DataP[i] }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return len(v.DataP) }

// Chainable (extended) methods
func (v Vector) Copy() Vector { // Does not change receiver
	data := make([]float64, len(v.DataP))
	copy(data, v.DataP)
	return NewVector(len(data), data)
}

func (v Vector) Set(val float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] = val
	}
	return v
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] *= a
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] += a
	}
	return v
}

func (v Vector) Subtract(a Vector) Vector { // Changes receiver
	for i, val := range a.DataP {
		v.DataP[i] -= val
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector { // Changes receiver
	for i, val := range v.DataP {
		v.DataP[i] = f(val)
	}
	return v
}

func (v Vector) POW(p int) Vector { // Changes receiver
	for i, val := range v.DataP {
		v.DataP[i] = POW(val, p)
	}
	return v
}

func (v Vector) Linspace(begin, end float64) Vector { // Changes receiver
	var (
		n = len(v.DataP)
	)
	if n == 1 {
		v.DataP[0] = begin
		return v
	}
	rangeDelta := (end - begin) / float64(n-1)
	for i := range v.DataP {
		v.DataP[i] = begin + float64(i)*rangeDelta
	}
	return v
}

// ToMatrix views the vector as an n x 1 column matrix sharing storage
func (v Vector) ToMatrix() Matrix {
	return NewMatrix(len(v.DataP), 1, v.DataP)
}

// Outer returns the n x m matrix v * w^T
func (v Vector) Outer(w Vector) (R Matrix) {
	var (
		nr, nc = len(v.DataP), len(w.DataP)
	)
	R = NewMatrix(nr, nc)
	for i, vi := range v.DataP {
		for j, wj := range w.DataP {
			R.DataP[i*nc+j] = vi * wj
		}
	}
	return
}

func (v Vector) ToIndex() (I Index) {
	I = make(Index, len(v.DataP))
	for i, val := range v.DataP {
		I[i] = int(val)
	}
	return
}

func (v Vector) Find(op EvalOp, target float64, abs bool) (r Vector) {
	var (
		rI []float64
	)
	for i, val := range v.DataP {
		if abs && val < 0 {
			val = -val
		}
		if op.Compare(val, target) {
			rI = append(rI, float64(i))
		}
	}
	return NewVector(len(rI), rI)
}

func (v Vector) Min() (min float64) {
	min = v.DataP[0]
	for _, val := range v.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	max = v.DataP[0]
	for _, val := range v.DataP {
		if val > max {
			max = val
		}
	}
	return
}
