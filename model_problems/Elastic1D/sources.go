package Elastic1D

import "math"

// RickerWavelet is (2a(t-T0)^2 - 1) exp(-a(t-T0)^2), truncated to zero outside |t-T0| <= 3/sqrt(a)
type RickerWavelet struct {
	A, T0 float64
}

func (rw RickerWavelet) HalfWidth() float64 { return 3 / math.Sqrt(rw.A) }

// Onset is the first time the wavelet is non-zero
func (rw RickerWavelet) Onset() float64 { return rw.T0 - rw.HalfWidth() }

func (rw RickerWavelet) Eval(t float64) float64 {
	tau := t - rw.T0
	if math.Abs(tau) > rw.HalfWidth() {
		return 0
	}
	r2 := rw.A * tau * tau
	return (-1 + 2*r2) * math.Exp(-r2)
}

// BoxProfile is one on [xl,xr] and zero elsewhere
func BoxProfile(xl, xr float64) func(x float64) float64 {
	return func(x float64) float64 {
		if x >= xl && x <= xr {
			return 1
		}
		return 0
	}
}

// SpongeLayer is strength for x <= xl or x >= xr and zero in between
func SpongeLayer(xl, xr, strength float64) func(x float64) float64 {
	return func(x float64) float64 {
		if x <= xl || x >= xr {
			return strength
		}
		return 0
	}
}

// Gaussian is exp(-a(x-x0)^2)
func Gaussian(a, x0 float64) func(x float64) float64 {
	return func(x float64) float64 {
		return math.Exp(-a * (x - x0) * (x - x0))
	}
}
