package utils

import (
	"fmt"
)

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func (I Index) Copy() (r Index) {
	r = make(Index, len(I))
	copy(r, I)
	return
}

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return r
}

func (I Index) Subset(J Index) (r Index) {
	r = make(Index, len(J))
	for j, val := range J {
		r[j] = I[val]
	}
	return
}

func (I Index) Apply(f func(val int) int) (r Index) {
	r = make(Index, len(I))
	for i, val := range I {
		r[i] = f(val)
	}
	return
}

func (I Index) FindVec(op EvalOp, Values Index) (J Index) {
	/*
		Each element of Values is compared to the corresponding value of I:
		if (I[i] op Values[i]): append i to the output index J
	*/
	for i, val := range I {
		if op.Compare(float64(val), float64(Values[i])) {
			J = append(J, i)
		}
	}
	return
}

// Index2D holds row and column indices into an nr x nc matrix
type Index2D struct {
	Nr, Nc int
	RI, CI Index
	Len    int
}

func NewIndex2D(nr, nc int, RI, CI Index) (I2 Index2D, err error) {
	if len(RI) != len(CI) {
		err = fmt.Errorf("lengths of row and column indices must be the same: nr, nc = %v, %v", len(RI), len(CI))
		return
	}
	for i := range RI {
		if RI[i] < 0 || RI[i] >= nr || CI[i] < 0 || CI[i] >= nc {
			err = fmt.Errorf("index (%d,%d) out of bounds for %d x %d", RI[i], CI[i], nr, nc)
			return
		}
	}
	return Index2D{
		Nr:  nr,
		Nc:  nc,
		RI:  RI,
		CI:  CI,
		Len: len(RI),
	}, nil
}

// ToIndex converts to raw row-major indices
func (I2 Index2D) ToIndex() (I Index) {
	I = make(Index, I2.Len)
	for i := range I {
		I[i] = I2.RI[i]*I2.Nc + I2.CI[i]
	}
	return
}
