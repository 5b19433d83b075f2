package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

// Matrix wraps a row-major gonum Dense with chainable element-wise operations.
// Nodal fields are stored Np x K: row i is the i-th node, column k the k-th element.
type Matrix struct {
	M        *mat.Dense
	DataP    []float64
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		M:     m,
		DataP: m.RawMatrix().Data,
		name:  "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) Len() int                  { return len(m.DataP) }
func (m Matrix) IsEmpty() bool             { return m.M == nil }

// Chainable methods (extended)
func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, m.DataP)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nc, nr)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			R.DataP[j*nr+i] = m.DataP[i*nc+j]
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.Dims()
		_, ncA = A.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return R
}

// MulTo computes m*A into R, which must be allocated with matching dimensions.
func (m Matrix) MulTo(A, R Matrix) Matrix {
	R.checkWritable()
	R.M.Mul(m.M, A.M)
	return R
}

func (m Matrix) SliceRows(I Index) (R Matrix) { // Does not change receiver
	// I should contain a list of row indices into M
	var (
		nr, nc   = m.Dims()
		maxIndex = nr - 1
	)
	R = NewMatrix(len(I), nc)
	for iNewRow, i := range I {
		if i > maxIndex || i < 0 {
			panic(fmt.Errorf("unable to subset rows from matrix, index = %d, max_bounds = %d", i, maxIndex))
		}
		R.M.SetRow(iNewRow, m.M.RawRowView(i))
	}
	return
}

func (m Matrix) SliceCols(I Index) (R Matrix) { // Does not change receiver
	// I should contain a list of column indices into M
	var (
		nr, nc   = m.Dims()
		maxIndex = nc - 1
	)
	R = NewMatrix(nr, len(I))
	for jNewCol, j := range I {
		if j > maxIndex || j < 0 {
			panic(fmt.Errorf("unable to subset columns from matrix, index = %d, max_bounds = %d", j, maxIndex))
		}
		for i := 0; i < nr; i++ {
			R.DataP[i*len(I)+jNewCol] = m.DataP[i*nc+j]
		}
	}
	return
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	var (
		nr, nc = m.Dims()
	)
	i, j = lim(i, nr), lim(j, nc)
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetAll(val float64) Matrix { // Changes receiver
	m.checkWritable()
	for i := range m.DataP {
		m.DataP[i] = val
	}
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix { // Changes receiver
	var (
		_, nc = m.Dims()
	)
	j = lim(j, nc)
	m.checkWritable()
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) Assign(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSize(A)
	copy(m.DataP, A.DataP)
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSize(A)
	for i, val := range A.DataP {
		m.DataP[i] += val
	}
	return m
}

// AddScaled adds a*A to the receiver
func (m Matrix) AddScaled(a float64, A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSize(A)
	for i, val := range A.DataP {
		m.DataP[i] += a * val
	}
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSize(A)
	for i, val := range A.DataP {
		m.DataP[i] -= val
	}
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	m.checkWritable()
	for i := range m.DataP {
		m.DataP[i] *= a
	}
	return m
}

func (m Matrix) AddScalar(a float64) Matrix { // Changes receiver
	m.checkWritable()
	for i := range m.DataP {
		m.DataP[i] += a
	}
	return m
}

func (m Matrix) Apply(f func(float64) float64) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range m.DataP {
		m.DataP[i] = f(val)
	}
	return m
}

func (m Matrix) POW(p int) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range m.DataP {
		m.DataP[i] = POW(val, p)
	}
	return m
}

func (m Matrix) ElMul(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSize(A)
	for i, val := range A.DataP {
		m.DataP[i] *= val
	}
	return m
}

func (m Matrix) AssignScalar(I Index, val float64) Matrix { // Changes receiver
	m.checkWritable()
	for _, ind := range I {
		m.DataP[ind] = val
	}
	return m
}

// Non chainable methods
func (m Matrix) Inverse() (R Matrix, err error) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("unable to invert, matrix is not square: %d x %d", nr, nc)
		return
	}
	R = m.Copy()
	iPiv := make([]int, nr)
	if ok := lapack64.Getrf(R.RawMatrix(), iPiv); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
		return
	}
	work := make([]float64, nr*nc)
	if ok := lapack64.Getri(R.RawMatrix(), iPiv, work, nr*nc); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
	}
	return
}

func (m Matrix) Col(j int) Vector {
	var (
		nr, nc = m.Dims()
		vData  = make([]float64, nr)
	)
	j = lim(j, nc)
	for i := range vData {
		vData[i] = m.DataP[i*nc+j]
	}
	return NewVector(nr, vData)
}

func (m Matrix) Row(i int) Vector {
	var (
		nr, nc = m.Dims()
		vData  = make([]float64, nc)
	)
	i = lim(i, nr)
	copy(vData, m.DataP[i*nc:(i+1)*nc])
	return NewVector(nc, vData)
}

// SumRows returns the sum across each row, one entry per row
func (m Matrix) SumRows() Vector {
	var (
		nr, nc = m.Dims()
		vData  = make([]float64, nr)
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			vData[i] += m.DataP[i*nc+j]
		}
	}
	return NewVector(nr, vData)
}

// SumCols returns the sum down each column, one entry per column
func (m Matrix) SumCols() Vector {
	var (
		nr, nc = m.Dims()
		vData  = make([]float64, nc)
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			vData[j] += m.DataP[i*nc+j]
		}
	}
	return NewVector(nc, vData)
}

func (m Matrix) Min() (min float64) {
	min = m.DataP[0]
	for _, val := range m.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (m Matrix) Max() (max float64) {
	max = m.DataP[0]
	for _, val := range m.DataP {
		if val > max {
			max = val
		}
	}
	return
}

func (m Matrix) Find(op EvalOp, val float64) (I Index2D) {
	var (
		nr, nc         = m.Dims()
		rowInd, colInd Index
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if op.Compare(m.DataP[i*nc+j], val) {
				rowInd = append(rowInd, i)
				colInd = append(colInd, j)
			}
		}
	}
	I, _ = NewIndex2D(nr, nc, rowInd, colInd)
	return
}

// SubsetVector gathers the entries at the (row-major) raw indices I
func (m Matrix) SubsetVector(I Index) (V Vector) {
	var (
		data = make([]float64, len(I))
	)
	for i, ind := range I {
		data[i] = m.DataP[ind]
	}
	V = NewVector(len(I), data)
	return
}

// Subset gathers the entries at raw indices I into a new nr x nc matrix
func (m Matrix) Subset(I Index, nr, nc int) (R Matrix) {
	if len(I) != nr*nc {
		panic(fmt.Errorf("subset of %d indices does not fit %d x %d", len(I), nr, nc))
	}
	R = NewMatrix(nr, nc)
	for i, ind := range I {
		R.DataP[i] = m.DataP[ind]
	}
	return
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m Matrix) checkSize(A Matrix) {
	if len(A.DataP) != len(m.DataP) {
		nr, nc := m.Dims()
		nrA, ncA := A.Dims()
		panic(fmt.Errorf("dimension mismatch: %d x %d vs %d x %d", nr, nc, nrA, ncA))
	}
}

// NewSymTriDiagonal builds a symmetric tridiagonal matrix from its diagonal d0 and off diagonal d1
func NewSymTriDiagonal(d0, d1 []float64) (Tri *mat.SymDense) {
	var (
		N = len(d0)
	)
	if len(d1) != N-1 {
		panic(fmt.Errorf("off diagonal length %d should be %d", len(d1), N-1))
	}
	Tri = mat.NewSymDense(N, nil)
	for i := 0; i < N; i++ {
		Tri.SetSym(i, i, d0[i])
		if i < N-1 {
			Tri.SetSym(i, i+1, d1[i])
		}
	}
	return
}

func lim(i, imax int) int {
	if i < 0 {
		return imax + i // Support indexing from end, -1 is imax
	}
	return i
}
