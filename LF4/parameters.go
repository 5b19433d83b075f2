package LF4

import (
	"fmt"
	"math"
)

// MaxCourant is advisory, exceeding it is reported but not prevented
const MaxCourant = 1.0

// Parameters are the isotropic elastic material constants
type Parameters struct {
	Density float64 // rho
	Lambda  float64 // first Lame parameter
	Mu      float64 // shear modulus
}

func (p Parameters) Validate() (err error) {
	for _, v := range []struct {
		name string
		val  float64
	}{{"density", p.Density}, {"lambda", p.Lambda}, {"mu", p.Mu}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return configError("%s must be finite, got %v", v.name, v.val)
		}
	}
	switch {
	case p.Density <= 0:
		err = configError("density must be positive, got %v", p.Density)
	case p.Mu < 0:
		err = configError("mu must be non-negative, got %v", p.Mu)
	case p.Lambda < 0:
		err = configError("lambda must be non-negative, got %v", p.Lambda)
	}
	return
}

// Modulus is the P-wave modulus lambda + 2 mu
func (p Parameters) Modulus() float64 { return p.Lambda + 2*p.Mu }

func (p Parameters) Vp() float64 { return math.Sqrt(p.Modulus() / p.Density) }

func (p Parameters) Vs() float64 { return math.Sqrt(p.Mu / p.Density) }

func (p Parameters) Impedance() float64 { return p.Density * p.Vp() }

// TimestepFromCFL returns dt = C * h / Vp, where h is the minimum node spacing
func (p Parameters) TimestepFromCFL(C, h float64) (dt float64, err error) {
	if err = p.Validate(); err != nil {
		return
	}
	if !(C > 0) || math.IsInf(C, 0) {
		err = configError("courant number must be positive, got %v", C)
		return
	}
	if !(h > 0) || math.IsInf(h, 0) {
		err = configError("mesh spacing must be positive, got %v", h)
		return
	}
	if p.Modulus() == 0 {
		err = configError("wave speed is zero, a CFL timestep is undefined")
		return
	}
	if C > MaxCourant {
		fmt.Printf("Warning: CFL = %8.4f exceeds the stable limit of %4.2f\n", C, MaxCourant)
	}
	dt = C * h / p.Vp()
	return
}

func (p Parameters) String() string {
	return fmt.Sprintf("rho = %8.5g, lambda = %8.5g, mu = %8.5g, Vp = %8.5g, Vs = %8.5g",
		p.Density, p.Lambda, p.Mu, p.Vp(), p.Vs())
}
