package Elastic1D

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/elasticlf4/LF4"
)

// Case is a complete problem definition. Either DT or CFL sets the timestep;
// a CFL derived timestep is shortened to land exactly on FinalTime.
type Case struct {
	Name       string
	Params     LF4.Parameters
	N, K       int
	XMin, XMax float64
	DT, CFL    float64
	FinalTime  float64
	Mass       LF4.MassKind

	InitialVelocity func(x float64) float64
	// InitialStress receives the timestep, stress is staggered half a step in some cases
	InitialStress func(x, dt float64) float64
	Absorption    func(x float64) float64
	SourceProfile func(x float64) float64
	Wavelet       func(t float64) float64

	ExactVelocity func(x, t float64) float64
	ExactStress   func(x, t float64) float64
}

// Pulse is a right moving Gaussian in a 1D column with sponge layers at both ends
func Pulse() Case {
	var (
		Lx = 4.
		h  = 1.e-2
		g  = Gaussian(50, 1)
	)
	return Case{
		Name:            "pulse",
		Params:          LF4.Parameters{Density: 1, Lambda: 0.5, Mu: 0.25},
		N:               1,
		K:               int(math.Round(Lx / h)),
		XMin:            0,
		XMax:            Lx,
		DT:              0.0025,
		FinalTime:       2,
		Mass:            LF4.Consistent,
		InitialVelocity: g,
		InitialStress:   func(x, dt float64) float64 { return -g(x) },
		Absorption:      SpongeLayer(0.5, 3.5, 100),
	}
}

// ExplosiveSource is a Ricker wavelet stress source in a quiescent column
func ExplosiveSource() Case {
	var (
		Lx = 300.
		h  = 2.5
	)
	return Case{
		Name:          "explosive",
		Params:        LF4.Parameters{Density: 1, Lambda: 3599.3664, Mu: 3600},
		N:             2,
		K:             int(math.Round(Lx / h)),
		XMin:          0,
		XMax:          Lx,
		DT:            0.001,
		FinalTime:     2.5,
		Mass:          LF4.Consistent,
		Absorption:    SpongeLayer(20, Lx-20, 1000),
		SourceProfile: BoxProfile(44.5, 45.5),
		Wavelet:       RickerWavelet{A: 159.42, T0: 0.3}.Eval,
	}
}

// Eigenmode is the fundamental standing wave of a free-free column on [0,1]
func Eigenmode(N, K int) Case {
	return NewEigenmode(LF4.Parameters{Density: 1, Lambda: 0.5, Mu: 0.25}, 0, 1, N, K)
}

// NewEigenmode is the standing wave s = sin(pi x/L) sin(wt) on [xmin,xmax], with w = Vp pi / L
func NewEigenmode(params LF4.Parameters, xmin, xmax float64, N, K int) Case {
	var (
		L      = xmax - xmin
		A      = 1.
		omega  = params.Vp() * math.Pi / L
		uExact = func(x, t float64) float64 {
			return -A * math.Pi / (L * params.Density * omega) * math.Cos(math.Pi*(x-xmin)/L) * math.Cos(omega*t)
		}
		sExact = func(x, t float64) float64 {
			return A * math.Sin(math.Pi*(x-xmin)/L) * math.Sin(omega*t)
		}
	)
	return Case{
		Name:            "eigenmode",
		Params:          params,
		N:               N,
		K:               K,
		XMin:            xmin,
		XMax:            xmax,
		CFL:             0.2,
		FinalTime:       1,
		Mass:            LF4.Consistent,
		InitialVelocity: func(x float64) float64 { return uExact(x, 0) },
		InitialStress:   func(x, dt float64) float64 { return sExact(x, dt/2) },
		ExactVelocity:   uExact,
		ExactStress:     sExact,
	}
}

func CaseByName(name string, N, K int) (cs Case, err error) {
	switch strings.ToLower(name) {
	case "pulse":
		cs = Pulse()
	case "explosive", "explosivesource":
		cs = ExplosiveSource()
	case "eigenmode":
		cs = Eigenmode(N, K)
	default:
		err = fmt.Errorf("%w: unknown case %q, expected pulse, explosive or eigenmode", LF4.ErrConfig, name)
	}
	return
}

// Build discretizes the case and returns the stepper positioned at t = 0
func (cs Case) Build(opts ...LF4.Option) (c *Elastic, st *LF4.Stepper, err error) {
	if c, err = cs.Discretize(); err != nil {
		return
	}
	st, err = cs.NewStepper(c, opts...)
	return
}

// Discretize builds the element set with the absorption and source of the case
func (cs Case) Discretize() (c *Elastic, err error) {
	if c, err = NewElastic(cs.Params, cs.N, cs.K, cs.XMin, cs.XMax); err != nil {
		return
	}
	if cs.Absorption != nil {
		if err = c.SetAbsorption(cs.Absorption); err != nil {
			return
		}
	}
	if cs.SourceProfile != nil || cs.Wavelet != nil {
		if err = c.SetSource(cs.SourceProfile, cs.Wavelet); err != nil {
			return
		}
	}
	return
}

// NewStepper samples the initial data on c and sets up the LF4 stepper
func (cs Case) NewStepper(c *Elastic, opts ...LF4.Option) (st *LF4.Stepper, err error) {
	var dt float64
	if dt, err = cs.Timestep(c); err != nil {
		return
	}
	if c.hasSource {
		opts = append([]LF4.Option{LF4.WithForcing(c)}, opts...)
	}
	massU, massS, err := c.MassOperators(cs.Mass)
	if err != nil {
		return
	}
	u0 := c.NewVelocity(cs.InitialVelocity)
	s0 := c.NewStress(nil)
	if cs.InitialStress != nil {
		s0 = c.NewStress(func(x float64) float64 { return cs.InitialStress(x, dt) })
	}
	return LF4.NewStepper(cs.Params, dt, c, massU, massS, u0, s0, opts...)
}

// Timestep uses DT when set, otherwise CFL*xmin/Vp adjusted to divide FinalTime evenly
func (cs Case) Timestep(c *Elastic) (dt float64, err error) {
	if cs.DT > 0 {
		if cs.CFL > 0 {
			fmt.Printf("Both DT and CFL set, using DT = %8.6f\n", cs.DT)
		}
		dt = cs.DT
		return
	}
	if dt, err = cs.Params.TimestepFromCFL(cs.CFL, c.MinNodeSpacing()); err != nil {
		return
	}
	if cs.FinalTime > 0 {
		Nsteps := int(math.Ceil(cs.FinalTime/dt - 1.e-9))
		dt = cs.FinalTime / float64(Nsteps)
	}
	return
}
