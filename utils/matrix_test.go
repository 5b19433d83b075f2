package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	// Transpose
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		mNr, mNc := M.Dims()
		A := M.Transpose()
		aNr, aNc := A.Dims()
		assert.Equal(t, aNc, mNr)
		assert.Equal(t, aNr, mNc)
		assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, A.RawMatrix().Data)
	}
	// SliceRows
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		A := M.SliceRows(Index{1, 0})
		assert.Equal(t, []float64{4, 5, 6, 1, 2, 3}, A.DataP)
	}
	// SliceCols
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		A := M.SliceCols(Index{1, 0})
		assert.Equal(t, []float64{2, 1, 5, 4}, A.DataP)
	}
	// Sums run along the named direction
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		assert.Equal(t, []float64{6, 15}, M.SumRows().DataP)
		assert.Equal(t, []float64{5, 7, 9}, M.SumCols().DataP)
		assert.Equal(t, 1., M.Min())
		assert.Equal(t, 6., M.Max())
		assert.Equal(t, []float64{3, 6}, M.Col(-1).DataP)
		assert.Equal(t, []float64{4, 5, 6}, M.Row(1).DataP)
	}
	// Chained element-wise operations change the receiver
	{
		M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		B := NewMatrix(2, 2, []float64{1, 1, 1, 1})
		M.Add(B).Scale(2).AddScalar(-1)
		assert.Equal(t, []float64{3, 5, 7, 9}, M.DataP)
		M.AddScaled(-3, B).ElMul(B.Copy().Scale(2))
		assert.Equal(t, []float64{0, 4, 8, 12}, M.DataP)
		C := M.Copy()
		C.Set(0, 0, 100)
		assert.Equal(t, 0., M.At(0, 0))
	}
	// Mul
	{
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		x := NewMatrix(2, 1, []float64{1, 1})
		assert.Equal(t, []float64{3, 7}, A.Mul(x).DataP)
	}
	// Inverse
	{
		A := NewMatrix(3, 3, []float64{
			4, 1, 0,
			1, 4, 1,
			0, 1, 4,
		})
		Ainv, err := A.Inverse()
		require.NoError(t, err)
		I := A.Mul(Ainv)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				var target float64
				if i == j {
					target = 1
				}
				assert.InDelta(t, target, I.At(i, j), 1.e-13)
			}
		}
		_, err = NewMatrix(2, 3).Inverse()
		assert.Error(t, err)
		_, err = NewMatrix(2, 2, []float64{1, 2, 2, 4}).Inverse()
		assert.Error(t, err)
	}
	// Read only matrices panic on write
	{
		A := NewMatrix(2, 2)
		A.SetReadOnly("A")
		assert.Panics(t, func() { A.Scale(2) })
	}
	// Find and SubsetVector use row-major indices
	{
		A := NewMatrix(2, 3, []float64{
			0, -1, 2,
			3, 0, -5,
		})
		I2 := A.Find(Less, 0)
		assert.Equal(t, Index{0, 1}, I2.RI)
		assert.Equal(t, Index{1, 2}, I2.CI)
		v := A.SubsetVector(I2.ToIndex())
		assert.Equal(t, []float64{-1, -5}, v.DataP)
		A.AssignScalar(I2.ToIndex(), 0)
		assert.Equal(t, 0., A.Min())
	}
	// SymTriDiagonal
	{
		Tri := NewSymTriDiagonal([]float64{1, 2, 3}, []float64{0.5, 0.25})
		assert.Equal(t, 0.5, Tri.At(1, 0))
		assert.Equal(t, 0.25, Tri.At(1, 2))
		assert.Equal(t, 0., Tri.At(0, 2))
	}
	// IsFinite
	{
		ok, ind := IsFinite([]float64{0, 1, math.Inf(-1), math.NaN()})
		assert.False(t, ok)
		assert.Equal(t, 2, ind)
		ok, ind = IsFinite([]float64{0, 1})
		assert.True(t, ok)
		assert.Equal(t, -1, ind)
		assert.True(t, IsNan(NewMatrix(1, 2, []float64{0, math.NaN()})))
	}
}

func TestMatrixSubset(t *testing.T) {
	A := NewMatrix(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	F := A.Subset(Index{0, 1, 4, 5}, 2, 2)
	assert.Equal(t, []float64{1, 2, 5, 6}, F.DataP)
	assert.Panics(t, func() { A.Subset(Index{0}, 2, 2) })
}
