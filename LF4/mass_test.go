package LF4

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/elasticlf4/utils"
)

func testBlocks(K int) BlockMass {
	bm := BlockMass{Np: 2, K: K, Blocks: make([]utils.Matrix, K)}
	for k := 0; k < K; k++ {
		scale := float64(k + 1)
		bm.Blocks[k] = utils.NewMatrix(2, 2, []float64{2, 1, 1, 2}).Scale(scale)
	}
	return bm
}

func TestConsistentMass(t *testing.T) {
	var (
		K  = 3
		bm = testBlocks(K)
	)
	cm, err := NewConsistentMass(bm, 2)
	require.NoError(t, err)
	Np, KK := cm.Dims()
	assert.Equal(t, 2, Np)
	assert.Equal(t, K, KK)
	assert.Equal(t, Consistent, cm.Kind())

	// The inverse of scale*[[2,1],[1,2]] is [[2,-1],[-1,2]]/(3*scale), weighted by 1/2
	inv := cm.Inverse()
	r, c := inv.Dims()
	assert.Equal(t, Np*K, r)
	assert.Equal(t, Np*K, c)
	for k := 0; k < K; k++ {
		f := 1 / (3 * float64(k+1) * 2)
		assert.InDelta(t, 2*f, inv.At(2*k, 2*k), 1.e-15)
		assert.InDelta(t, -f, inv.At(2*k, 2*k+1), 1.e-15)
		if k > 0 {
			assert.Equal(t, 0., inv.At(2*k, 2*k-1))
		}
	}

	// Applying to M*x recovers x, including when out aliases in
	x := NewField("x", VectorRank, 1, Np, K)
	for i := range x.Comp[0].DataP {
		x.Comp[0].DataP[i] = float64(i) - 2.5
	}
	Mx := NewField("Mx", VectorRank, 1, Np, K)
	for k := 0; k < K; k++ {
		for i := 0; i < Np; i++ {
			var sum float64
			for j := 0; j < Np; j++ {
				sum += 2 * bm.Blocks[k].At(i, j) * x.Comp[0].At(j, k)
			}
			Mx.Comp[0].Set(i, k, sum)
		}
	}
	require.NoError(t, cm.Apply(Mx, Mx))
	for i, val := range x.Comp[0].DataP {
		assert.InDelta(t, val, Mx.Comp[0].DataP[i], 1.e-13)
	}
}

func TestConsistentMassMatchesInverse(t *testing.T) {
	var (
		Np, K = 3, 4
		bm    = BlockMass{Np: Np, K: K, Blocks: make([]utils.Matrix, K)}
	)
	for k := 0; k < K; k++ {
		bm.Blocks[k] = utils.NewMatrix(3, 3, []float64{
			4, 1, 0,
			1, 3, 1,
			0, 1, 2,
		}).Scale(float64(k) + 0.5)
	}
	cm, err := NewConsistentMass(bm, 1.25)
	require.NoError(t, err)
	inv := cm.Inverse()

	// Two components exercise the work vectors being reset between components
	in := NewField("in", VectorRank, 2, Np, K)
	for n := range in.Comp {
		for i := range in.Comp[n].DataP {
			in.Comp[n].DataP[i] = float64((i+1)*(n+2)%7) - 3
		}
	}
	out := NewField("out", VectorRank, 2, Np, K)
	require.NoError(t, cm.Apply(in, out))
	for n := range in.Comp {
		for k := 0; k < K; k++ {
			for i := 0; i < Np; i++ {
				var want float64
				for kk := 0; kk < K; kk++ {
					for j := 0; j < Np; j++ {
						want += inv.At(k*Np+i, kk*Np+j) * in.Comp[n].At(j, kk)
					}
				}
				assert.InDeltaf(t, want, out.Comp[n].At(i, k), 1.e-13, "component %d node %d element %d", n, i, k)
			}
		}
	}
	// Applying twice into the same output gives the same result
	again := out.Copy("again")
	require.NoError(t, cm.Apply(in, out))
	assert.Equal(t, again.Comp[1].DataP, out.Comp[1].DataP)
}

func TestMassBuildIsRepeatable(t *testing.T) {
	bm := testBlocks(40)
	cm1, err := NewConsistentMass(bm, 1.5)
	require.NoError(t, err)
	cm2, err := NewConsistentMass(bm, 1.5)
	require.NoError(t, err)
	raw1, raw2 := cm1.inverse.RawMatrix(), cm2.inverse.RawMatrix()
	assert.Equal(t, raw1.Indptr, raw2.Indptr)
	assert.Equal(t, raw1.Ind, raw2.Ind)
	assert.Equal(t, raw1.Data, raw2.Data)

	lm1, err := NewLumpedMass(bm, 1.5)
	require.NoError(t, err)
	lm2, err := NewLumpedMass(bm, 1.5)
	require.NoError(t, err)
	assert.Equal(t, lm1.Diagonal().DataP, lm2.Diagonal().DataP)
}

func TestLumpedMass(t *testing.T) {
	var (
		K  = 2
		bm = testBlocks(K)
	)
	op, err := NewMassOperator(Lumped, bm, 1)
	require.NoError(t, err)
	lm := op.(*LumpedMass)
	assert.Equal(t, Lumped, lm.Kind())
	// Row sums are 3*(k+1)
	assert.Equal(t, []float64{1. / 3, 1. / 6, 1. / 3, 1. / 6}, lm.Diagonal().DataP)

	in := NewField("in", TensorRank, 1, 2, K)
	in.Comp[0].SetAll(6)
	out := NewField("out", TensorRank, 1, 2, K)
	require.NoError(t, lm.Apply(in, out))
	for i, val := range []float64{2, 1, 2, 1} {
		assert.InDelta(t, val, out.Comp[0].DataP[i], 1.e-15)
	}

	// Non-positive row sums cannot be lumped
	bad := BlockMass{Np: 2, K: 1, Blocks: []utils.Matrix{utils.NewMatrix(2, 2, []float64{1, -2, -2, 1})}}
	_, err = NewLumpedMass(bad, 1)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestMassErrors(t *testing.T) {
	var (
		bm = testBlocks(2)
		in = NewField("in", VectorRank, 1, 2, 2)
	)
	// Unbuilt operators fail fast
	assert.ErrorIs(t, (&ConsistentMass{}).Apply(in, in), ErrConfig)
	assert.ErrorIs(t, (&LumpedMass{}).Apply(in, in), ErrConfig)

	for _, kind := range []MassKind{Consistent, Lumped} {
		op, err := NewMassOperator(kind, bm, 1)
		require.NoError(t, err)
		// Shape differs from the build shape
		wrong := NewField("wrong", VectorRank, 1, 3, 2)
		assert.ErrorIs(t, op.Apply(wrong, wrong), ErrConfig)
		// Input and output differ
		out := NewField("out", TensorRank, 1, 2, 2)
		assert.ErrorIs(t, op.Apply(in, out), ErrConfig)
		assert.ErrorIs(t, op.Apply(nil, in), ErrConfig)
	}

	_, err := NewConsistentMass(BlockMass{Np: 2, K: 3, Blocks: bm.Blocks}, 1)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = NewConsistentMass(bm, 0)
	assert.ErrorIs(t, err, ErrConfig)
	singular := BlockMass{Np: 2, K: 1, Blocks: []utils.Matrix{utils.NewMatrix(2, 2, []float64{1, 1, 1, 1})}}
	_, err = NewConsistentMass(singular, 1)
	assert.ErrorIs(t, err, ErrConfig)

	k, err := ParseMassKind("Lumped")
	require.NoError(t, err)
	assert.Equal(t, Lumped, k)
	_, err = ParseMassKind("diagonal")
	assert.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, "consistent", Consistent.String())
}
