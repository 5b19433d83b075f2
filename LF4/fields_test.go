package LF4

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/elasticlf4/utils"
)

func TestParameters(t *testing.T) {
	p := Parameters{Density: 1, Lambda: 0.5, Mu: 0.25}
	require.NoError(t, p.Validate())
	assert.InDelta(t, 1., p.Vp(), 1.e-15)
	assert.InDelta(t, 0.5, p.Vs(), 1.e-15)
	assert.Equal(t, 1., p.Modulus())
	assert.InDelta(t, 1., p.Impedance(), 1.e-15)
	assert.GreaterOrEqual(t, p.Vp(), p.Vs())

	dt, err := p.TimestepFromCFL(0.5, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 0.005, dt, 1.e-15)
	// Over the advisory limit is allowed
	dt, err = p.TimestepFromCFL(2, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 0.02, dt, 1.e-15)

	for _, bad := range []Parameters{
		{Density: 0, Lambda: 1, Mu: 1},
		{Density: 1, Lambda: -1, Mu: 1},
		{Density: 1, Lambda: 1, Mu: -1},
		{Density: math.NaN(), Lambda: 1, Mu: 1},
		{Density: 1, Lambda: math.Inf(1), Mu: 1},
	} {
		assert.ErrorIs(t, bad.Validate(), ErrConfig)
	}
	_, err = p.TimestepFromCFL(0, 0.01)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = p.TimestepFromCFL(0.5, -1)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestFields(t *testing.T) {
	u := NewField("u", VectorRank, 2, 3, 4)
	s := NewField("s", TensorRank, 2, 3, 4)
	nc, Np, K := u.Shape()
	assert.Equal(t, []int{2, 3, 4}, []int{nc, Np, K})
	nc, _, _ = s.Shape()
	assert.Equal(t, 4, nc)
	assert.False(t, u.SameShape(s))
	assert.ErrorIs(t, u.Assign(s), ErrConfig)

	a, b, d := u.Copy("a"), u.Copy("b"), u.Copy("d")
	a.Comp[1].SetAll(1)
	b.Comp[1].SetAll(2)
	d.Comp[1].SetAll(4)
	require.NoError(t, u.Combine(a, 0.5, b, 0.25, d))
	assert.Equal(t, 3., u.Comp[1].At(2, 3))
	assert.Equal(t, 0., u.Comp[0].At(2, 3))
	assert.Equal(t, 3., u.MaxAbs())
	assert.Equal(t, 12*3*1., u.Dot(a))
	assert.Equal(t, 24, len(u.Flatten()))

	ok, _, _ := u.IsFinite()
	assert.True(t, ok)
	u.Comp[1].Set(1, 2, math.Inf(1))
	ok, comp, ind := u.IsFinite()
	assert.False(t, ok)
	assert.Equal(t, 1, comp)
	assert.Equal(t, 1*4+2, ind)
	u.Zero()
	assert.Equal(t, 0., u.MaxAbs())

	_, err := NewFieldFrom("bad", TensorRank, 2, utils.NewMatrix(3, 4))
	assert.ErrorIs(t, err, ErrConfig)
	_, err = NewFieldFrom("bad", VectorRank, 2, utils.NewMatrix(3, 4), utils.NewMatrix(4, 3))
	assert.ErrorIs(t, err, ErrConfig)
	f, err := NewFieldFrom("ok", VectorRank, 1, utils.NewMatrix(3, 4))
	require.NoError(t, err)
	assert.Equal(t, "ok", f.Name)
}

func TestFieldSet(t *testing.T) {
	u0 := NewField("u", VectorRank, 1, 2, 2)
	s0 := NewField("s", TensorRank, 1, 2, 2)
	u0.Comp[0].SetAll(1)
	fs := NewFieldSet(u0, s0)
	names := []string{}
	for slot := Old; slot < NumSlots; slot++ {
		names = append(names, fs.Get(Velocity, slot).Name, fs.Get(Stress, slot).Name)
	}
	assert.Equal(t, []string{
		"VelocityOld", "StressOld",
		"VelocityHalf1", "StressHalf1",
		"VelocityTemp", "StressTemp",
		"VelocityHalf2", "StressHalf2",
		"VelocityNew", "StressNew",
	}, names)
	assert.Equal(t, 1., fs.Velocity[Old].MaxAbs())
	assert.Equal(t, 0., fs.Velocity[New].MaxAbs())
	fs.Velocity[New].Comp[0].SetAll(5)
	require.NoError(t, fs.Swap())
	assert.Equal(t, 5., fs.Velocity[Old].MaxAbs())
	fs.Velocity[New].Comp[0].SetAll(7)
	assert.Equal(t, 5., fs.Velocity[Old].MaxAbs())

	// A New slot replaced with a different shape is refused
	fs.Stress[New] = NewField("s", TensorRank, 1, 3, 2)
	assert.Error(t, fs.Swap())

	assert.Equal(t, "Half2", Half2.String())
	assert.Equal(t, "Slot(9)", Slot(9).String())
	assert.Equal(t, "Slot(5)", NumSlots.String())
}
