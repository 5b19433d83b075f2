package Elastic1D

import (
	"context"
	"fmt"
	"math"

	"github.com/notargets/elasticlf4/LF4"
)

type ConvergenceResult struct {
	N, K         int
	Dt           float64
	ErrU, ErrS   float64
	RateU, RateS float64 // observed order against the previous, coarser, K; zero on the first row
}

// ConvergenceStudy runs the eigenmode on each mesh and measures the L2 error of velocity
// at the final time and of stress half a step later, where it lives.
func ConvergenceStudy(ctx context.Context, N int, Ks []int, kind LF4.MassKind) (results []ConvergenceResult, err error) {
	if len(Ks) == 0 {
		return nil, fmt.Errorf("%w: no element counts in convergence study", LF4.ErrConfig)
	}
	for i, K := range Ks {
		if i > 0 && K <= Ks[i-1] {
			return nil, fmt.Errorf("%w: element counts must increase, got %v", LF4.ErrConfig, Ks)
		}
		cs := Eigenmode(N, K)
		cs.Mass = kind
		var res ConvergenceResult
		if res, err = cs.Measure(ctx, LF4.WithLogFrequency(0)); err != nil {
			return
		}
		if i > 0 {
			prev := results[i-1]
			ratio := math.Log(float64(K) / float64(prev.K))
			res.RateU = math.Log(prev.ErrU/res.ErrU) / ratio
			res.RateS = math.Log(prev.ErrS/res.ErrS) / ratio
		}
		results = append(results, res)
	}
	return
}

// Measure runs a case with an exact solution to its final time and returns the errors
func (cs Case) Measure(ctx context.Context, opts ...LF4.Option) (res ConvergenceResult, err error) {
	if cs.ExactVelocity == nil || cs.ExactStress == nil {
		err = fmt.Errorf("%w: case %s has no exact solution", LF4.ErrConfig, cs.Name)
		return
	}
	c, st, err := cs.Build(opts...)
	if err != nil {
		return
	}
	if err = st.Run(ctx, cs.FinalTime); err != nil {
		return
	}
	var (
		T  = st.Time()
		dt = st.Dt()
	)
	res = ConvergenceResult{
		N:  cs.N,
		K:  cs.K,
		Dt: dt,
		ErrU: c.L2Error(st.Velocity(), func(x float64) float64 {
			return cs.ExactVelocity(x, T)
		}),
		ErrS: c.L2Error(st.Stress(), func(x float64) float64 {
			return cs.ExactStress(x, T+dt/2)
		}),
	}
	return
}

func PrintConvergence(results []ConvergenceResult) {
	fmt.Printf("%4s %6s %12s %12s %8s %12s %8s\n", "N", "K", "dt", "errU", "rateU", "errS", "rateS")
	for _, r := range results {
		fmt.Printf("%4d %6d %12.4e %12.4e %8.3f %12.4e %8.3f\n", r.N, r.K, r.Dt, r.ErrU, r.RateU, r.ErrS, r.RateS)
	}
}
