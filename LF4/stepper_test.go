package LF4

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/elasticlf4/utils"
)

// oscillator is u' = s, s' = -u on a single node, so u = cos(t), s = -sin(t)
type oscillator struct {
	calls   []string
	nanAt   int
	fCount  int
	failGAt int
	gCount  int
}

func (o *oscillator) VelocityRHS(s, u, load *Field) error {
	o.calls = append(o.calls, fmt.Sprintf("f(%s,%s)", s.Name, u.Name))
	o.fCount++
	load.Comp[0].DataP[0] = s.Comp[0].DataP[0]
	if o.nanAt != 0 && o.fCount >= o.nanAt {
		load.Comp[0].DataP[0] = math.NaN()
	}
	return nil
}

func (o *oscillator) StressRHS(u, load *Field) error {
	o.calls = append(o.calls, fmt.Sprintf("g(%s)", u.Name))
	o.gCount++
	if o.failGAt != 0 && o.gCount == o.failGAt {
		return errors.New("assembly failed")
	}
	load.Comp[0].DataP[0] = -u.Comp[0].DataP[0]
	return nil
}

type forcingLog struct {
	times []float64
	ev    *oscillator
}

func (f *forcingLog) Update(t float64) error {
	f.times = append(f.times, t)
	if f.ev != nil {
		f.ev.calls = append(f.ev.calls, "update")
	}
	return nil
}

func scalarSetup(t *testing.T, dt float64) (params Parameters, mass MassOperator, u0, s0 *Field) {
	var err error
	params = Parameters{Density: 1, Lambda: 1, Mu: 0}
	bm := BlockMass{Np: 1, K: 1, Blocks: []utils.Matrix{utils.NewMatrix(1, 1, []float64{1})}}
	mass, err = NewConsistentMass(bm, 1)
	require.NoError(t, err)
	u0 = NewField("u", VectorRank, 1, 1, 1)
	s0 = NewField("s", TensorRank, 1, 1, 1)
	u0.Comp[0].DataP[0] = 1
	s0.Comp[0].DataP[0] = -math.Sin(dt / 2) // stress is staggered by half a step
	return
}

func TestStepperFourthOrderInTime(t *testing.T) {
	runError := func(dt float64) float64 {
		params, mass, u0, s0 := scalarSetup(t, dt)
		st, err := NewStepper(params, dt, &oscillator{}, mass, mass, u0, s0, WithLogFrequency(0))
		require.NoError(t, err)
		require.NoError(t, st.Run(context.Background(), 1))
		assert.InDelta(t, 1., st.Time(), 1.e-12)
		return math.Abs(st.Velocity().Comp[0].DataP[0] - math.Cos(st.Time()))
	}
	e1 := runError(0.1)
	e2 := runError(0.05)
	assert.Less(t, e1, 1.e-7)
	assert.Greater(t, e1/e2, 12.)
	assert.Less(t, e1/e2, 20.)
}

func TestStepperStageOrder(t *testing.T) {
	var (
		dt                 = 0.1
		params, mass, u, s = scalarSetup(t, dt)
		ev                 = &oscillator{}
		forcing            = &forcingLog{ev: ev}
		st, err            = NewStepper(params, dt, ev, mass, mass, u, s, WithForcing(forcing))
	)
	require.NoError(t, err)
	require.NoError(t, st.Step())
	assert.Equal(t, []string{
		"update",
		"f(StressOld,VelocityOld)",
		"g(VelocityHalf1)",
		"f(StressTemp,VelocityOld)",
		"g(VelocityNew)",
		"f(StressHalf1,VelocityNew)",
		"g(VelocityTemp)",
	}, ev.calls)
	require.NoError(t, st.Step())
	// Forcing is advanced once per step to the step's target time
	require.Equal(t, 2, len(forcing.times))
	assert.InDelta(t, 0.1, forcing.times[0], 1.e-15)
	assert.InDelta(t, 0.2, forcing.times[1], 1.e-15)
	assert.Equal(t, 2, st.Steps())
	// Old and New agree after the swap but are distinct buffers
	assert.Equal(t, st.Slot(Velocity, New).Comp[0].DataP, st.Velocity().Comp[0].DataP)
	st.Slot(Velocity, New).Comp[0].DataP[0] = 99
	assert.NotEqual(t, 99., st.Velocity().Comp[0].DataP[0])
	// The caller's initial fields are not retained
	assert.Equal(t, 1., u.Comp[0].DataP[0])
}

func TestStepperDivergence(t *testing.T) {
	var (
		dt                 = 0.1
		params, mass, u, s = scalarSetup(t, dt)
		ev                 = &oscillator{nanAt: 3*4 + 2} // second f call of the fifth step
	)
	st, err := NewStepper(params, dt, ev, mass, mass, u, s, WithLogFrequency(1))
	require.NoError(t, err)
	err = st.Run(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDivergence))
	var de *DivergenceError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 5, de.Step)
	assert.Equal(t, "VelocityHalf2", de.Field)
	assert.InDelta(t, 0.5, de.Time, 1.e-12)
	// The last completed step is left intact
	assert.Equal(t, 4, st.Steps())
	ok, _, _ := st.Velocity().IsFinite()
	assert.True(t, ok)
}

func TestStepperEvaluatorError(t *testing.T) {
	var (
		dt                 = 0.1
		params, mass, u, s = scalarSetup(t, dt)
	)
	st, err := NewStepper(params, dt, &oscillator{failGAt: 2}, mass, mass, u, s)
	require.NoError(t, err)
	err = st.Step()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDivergence))
	assert.Contains(t, err.Error(), "StressHalf1")
	assert.Equal(t, 0, st.Steps())
}

func TestStepperCancellationAndWriters(t *testing.T) {
	var (
		dt                 = 0.1
		params, mass, u, s = scalarSetup(t, dt)
		ctx, cancel        = context.WithCancel(context.Background())
		written            []int
	)
	defer cancel()
	// A failing writer does not stop the run
	w := WriterFunc(func(step int, tt float64, u, s *Field) error {
		written = append(written, step)
		if step == 4 {
			cancel()
		}
		return errors.New("disk full")
	})
	st, err := NewStepper(params, dt, &oscillator{}, mass, mass, u, s, WithWriter(w, 2))
	require.NoError(t, err)
	err = st.Run(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	// Cancellation lands between steps
	assert.Equal(t, 4, st.Steps())
	assert.InDelta(t, 0.4, st.Time(), 1.e-15)
	assert.Equal(t, []int{0, 2, 4}, written)

	// Resuming completes the run
	require.NoError(t, st.Run(context.Background(), 1))
	assert.Equal(t, 10, st.Steps())
}

func TestStepperConfigErrors(t *testing.T) {
	var (
		dt                 = 0.1
		params, mass, u, s = scalarSetup(t, dt)
		ev                 = &oscillator{}
	)
	check := func(err error) {
		t.Helper()
		assert.ErrorIs(t, err, ErrConfig)
	}
	_, err := NewStepper(params, 0, ev, mass, mass, u, s)
	check(err)
	_, err = NewStepper(params, math.Inf(1), ev, mass, mass, u, s)
	check(err)
	_, err = NewStepper(Parameters{Density: 0, Lambda: 1}, dt, ev, mass, mass, u, s)
	check(err)
	_, err = NewStepper(params, dt, nil, mass, mass, u, s)
	check(err)
	_, err = NewStepper(params, dt, ev, nil, mass, u, s)
	check(err)
	_, err = NewStepper(params, dt, ev, mass, mass, s, u)
	check(err)
	big := NewField("big", VectorRank, 1, 2, 1)
	_, err = NewStepper(params, dt, ev, mass, mass, big, s)
	check(err)
	nan := u.Copy("nan")
	nan.Comp[0].DataP[0] = math.NaN()
	_, err = NewStepper(params, dt, ev, mass, mass, nan, s)
	check(err)
	_, err = NewStepper(params, dt, ev, mass, mass, u, s, WithWriter(WriterFunc(nil), 0))
	check(err)
	st, err := NewStepper(params, dt, ev, mass, mass, u, s, WithStartTime(1))
	require.NoError(t, err)
	check(st.Run(context.Background(), 0.5))
}
