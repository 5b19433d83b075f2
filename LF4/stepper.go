package LF4

import (
	"context"
	"fmt"
	"math"
)

// timeTolerance admits a final step that lands on the end time up to roundoff
const timeTolerance = 1.e-12

// Stepper advances velocity and stress with the fourth order leap-frog scheme.
// Each step makes eight sub stage solves of the form "assemble a load, apply an inverse mass".
type Stepper struct {
	params       Parameters
	dt           float64
	ev           Evaluator
	massU, massS MassOperator
	fields       *FieldSet
	loadU, loadS *Field

	forcing       Forcing
	writer        Writer
	writeInterval int
	logFrequency  int

	startTime float64
	steps     int
}

type Option func(*Stepper)

func WithForcing(f Forcing) Option {
	return func(st *Stepper) { st.forcing = f }
}

// WithWriter calls w every interval steps and once before the first step of Run
func WithWriter(w Writer, interval int) Option {
	return func(st *Stepper) {
		st.writer = w
		st.writeInterval = interval
	}
}

// WithLogFrequency sets the number of steps between progress lines, 0 disables them
func WithLogFrequency(n int) Option {
	return func(st *Stepper) { st.logFrequency = n }
}

func WithStartTime(t float64) Option {
	return func(st *Stepper) { st.startTime = t }
}

// NewStepper validates the whole setup; the initial fields are copied, never retained.
// massU must already include the density weighting.
func NewStepper(params Parameters, dt float64, ev Evaluator, massU, massS MassOperator,
	u0, s0 *Field, opts ...Option) (st *Stepper, err error) {
	if err = params.Validate(); err != nil {
		return
	}
	switch {
	case !(dt > 0) || math.IsInf(dt, 0):
		err = configError("timestep must be positive and finite, got %v", dt)
	case ev == nil:
		err = configError("no right hand side evaluator")
	case massU == nil || massS == nil:
		err = configError("both velocity and stress mass operators are required")
	case u0 == nil || s0 == nil:
		err = configError("initial velocity and stress are required")
	case u0.Rank != VectorRank:
		err = configError("velocity must be a vector field, got %v", u0.Rank)
	case s0.Rank != TensorRank:
		err = configError("stress must be a tensor field, got %v", s0.Rank)
	case u0.Dim != s0.Dim:
		err = configError("velocity dimension %d differs from stress dimension %d", u0.Dim, s0.Dim)
	}
	if err != nil {
		return
	}
	_, NpU, KU := u0.Shape()
	_, NpS, KS := s0.Shape()
	if NpU != NpS || KU != KS {
		err = configError("velocity is %d x %d but stress is %d x %d", NpU, KU, NpS, KS)
		return
	}
	for _, m := range []MassOperator{massU, massS} {
		if Np, K := m.Dims(); Np != NpU || K != KU {
			err = configError("%v mass operator is %d x %d, fields are %d x %d", m.Kind(), Np, K, NpU, KU)
			return
		}
	}
	for _, f := range []*Field{u0, s0} {
		if ok, comp, ind := f.IsFinite(); !ok {
			err = configError("initial field %s has a non-finite value in component %d at %d", f.Name, comp, ind)
			return
		}
	}
	st = &Stepper{
		params:       params,
		dt:           dt,
		ev:           ev,
		massU:        massU,
		massS:        massS,
		fields:       NewFieldSet(u0, s0),
		loadU:        u0.Copy("VelocityLoad"),
		loadS:        s0.Copy("StressLoad"),
		logFrequency: 50,
	}
	for _, opt := range opts {
		opt(st)
	}
	switch {
	case st.writer != nil && st.writeInterval < 1:
		err = configError("output interval must be at least 1, got %d", st.writeInterval)
	case st.logFrequency < 0:
		err = configError("log frequency must not be negative, got %d", st.logFrequency)
	case math.IsNaN(st.startTime) || math.IsInf(st.startTime, 0):
		err = configError("start time must be finite")
	}
	if err != nil {
		st = nil
	}
	return
}

func (st *Stepper) Time() float64 { return st.startTime + float64(st.steps)*st.dt }

func (st *Stepper) Steps() int { return st.steps }

func (st *Stepper) Dt() float64 { return st.dt }

func (st *Stepper) Parameters() Parameters { return st.params }

// Velocity and Stress are the current solution, valid until the next Step
func (st *Stepper) Velocity() *Field { return st.fields.Velocity[Old] }

func (st *Stepper) Stress() *Field { return st.fields.Stress[Old] }

func (st *Stepper) Slot(kind FieldKind, slot Slot) *Field { return st.fields.Get(kind, slot) }

// Step advances one timestep. On error the Old slots still hold the last completed step.
func (st *Stepper) Step() (err error) {
	var (
		fs     = st.fields
		dt     = st.dt
		dt3    = dt * dt * dt / 24.
		target = st.startTime + float64(st.steps+1)*dt
		u0, s0 = fs.Velocity[Old], fs.Stress[Old]
		uh1    = fs.Velocity[Half1]
		utemp  = fs.Velocity[Temp]
		uh2    = fs.Velocity[Half2]
		u1     = fs.Velocity[New]
		sh1    = fs.Stress[Half1]
		stemp  = fs.Stress[Temp]
		sh2    = fs.Stress[Half2]
		s1     = fs.Stress[New]
	)
	if st.forcing != nil {
		if err = st.forcing.Update(target); err != nil {
			return fmt.Errorf("forcing update at time %8.5f: %w", target, err)
		}
	}
	velocity := func(s, u, out *Field) error {
		if err := st.ev.VelocityRHS(s, u, st.loadU); err != nil {
			return fmt.Errorf("velocity load for %s: %w", out.Name, err)
		}
		if err := st.massU.Apply(st.loadU, out); err != nil {
			return err
		}
		return st.checkFinite(out, target)
	}
	stress := func(u, out *Field) error {
		if err := st.ev.StressRHS(u, st.loadS); err != nil {
			return fmt.Errorf("stress load for %s: %w", out.Name, err)
		}
		if err := st.massS.Apply(st.loadS, out); err != nil {
			return err
		}
		return st.checkFinite(out, target)
	}
	if err = velocity(s0, u0, uh1); err != nil {
		return
	}
	if err = stress(uh1, stemp); err != nil {
		return
	}
	if err = velocity(stemp, u0, uh2); err != nil {
		return
	}
	if err = u1.Combine(u0, dt, uh1, dt3, uh2); err != nil {
		return
	}
	if err = st.checkFinite(u1, target); err != nil {
		return
	}
	if err = stress(u1, sh1); err != nil {
		return
	}
	if err = velocity(sh1, u1, utemp); err != nil {
		return
	}
	if err = stress(utemp, sh2); err != nil {
		return
	}
	if err = s1.Combine(s0, dt, sh1, dt3, sh2); err != nil {
		return
	}
	if err = st.checkFinite(s1, target); err != nil {
		return
	}
	if err = fs.Swap(); err != nil {
		return
	}
	st.steps++
	return
}

func (st *Stepper) checkFinite(f *Field, t float64) error {
	if ok, _, ind := f.IsFinite(); !ok {
		return &DivergenceError{
			Step:  st.steps + 1,
			Time:  t,
			Field: f.Name,
			Index: ind,
		}
	}
	return nil
}

// Run steps while the next step ends at or before finalTime. Cancellation is
// observed between steps only, leaving a consistent completed state.
func (st *Stepper) Run(ctx context.Context, finalTime float64) (err error) {
	if math.IsNaN(finalTime) || finalTime < st.Time() {
		return configError("final time %v is before the current time %v", finalTime, st.Time())
	}
	fmt.Printf("FinalTime = %8.4f, Nsteps = %d, dt = %8.6f, %v\n",
		finalTime, int(math.Floor((finalTime-st.Time())/st.dt+timeTolerance)), st.dt, st.params)
	st.write()
	for st.Time()+st.dt <= finalTime+timeTolerance {
		select {
		case <-ctx.Done():
			fmt.Printf("Run cancelled at Time = %8.4f after %d steps\n", st.Time(), st.steps)
			return ctx.Err()
		default:
		}
		if err = st.Step(); err != nil {
			return
		}
		if st.logFrequency > 0 && st.steps%st.logFrequency == 0 {
			fmt.Printf("Time = %8.4f, step = %d, umax = %8.6f, smax = %8.6f\n",
				st.Time(), st.steps, st.Velocity().MaxAbs(), st.Stress().MaxAbs())
		}
		if st.writer != nil && st.steps%st.writeInterval == 0 {
			st.write()
		}
	}
	return
}

func (st *Stepper) write() {
	if st.writer == nil {
		return
	}
	if err := st.writer.Write(st.steps, st.Time(), st.Velocity(), st.Stress()); err != nil {
		fmt.Printf("Writer failed at step %d, continuing: %v\n", st.steps, err)
	}
}
