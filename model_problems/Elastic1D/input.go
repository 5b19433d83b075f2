package Elastic1D

import (
	"fmt"
	"strings"

	"github.com/notargets/elasticlf4/InputParameters"
	"github.com/notargets/elasticlf4/LF4"
)

// CaseFromInput builds a case from a complete input file, start from InputParameters.Defaults
// and overlay the user's file to get one.
func CaseFromInput(ip *InputParameters.InputParametersElastic) (cs Case, err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	var (
		params = LF4.Parameters{Density: ip.Density, Lambda: ip.Lambda, Mu: ip.Mu}
		N, K   = ip.PolynomialOrder, ip.Elements
		Lx     = ip.XMax - ip.XMin
	)
	switch strings.ToLower(ip.Case) {
	case "eigenmode":
		cs = NewEigenmode(params, ip.XMin, ip.XMax, N, K)
	case "pulse":
		g := Gaussian(50, ip.XMin+0.25*Lx)
		cs = Case{
			Name:            "pulse",
			InitialVelocity: g,
			InitialStress:   func(x, dt float64) float64 { return -g(x) },
		}
	case "explosive", "explosivesource":
		cs = Case{Name: "explosive"}
	default:
		err = fmt.Errorf("%w: unknown case %q", LF4.ErrConfig, ip.Case)
		return
	}
	if cs.Mass, err = LF4.ParseMassKind(ip.MassType); err != nil {
		return
	}
	cs.Params = params
	cs.N, cs.K = N, K
	cs.XMin, cs.XMax = ip.XMin, ip.XMax
	cs.DT, cs.CFL = ip.DT, ip.CFL
	cs.FinalTime = ip.FinalTime
	cs.Absorption, cs.SourceProfile, cs.Wavelet = nil, nil, nil
	if a := ip.Absorption; a.Strength > 0 {
		cs.Absorption = SpongeLayer(ip.XMin+a.Width, ip.XMax-a.Width, a.Strength)
	}
	if src := ip.Source; src.A > 0 {
		cs.SourceProfile = BoxProfile(src.X-0.5*src.Width, src.X+0.5*src.Width)
		cs.Wavelet = RickerWavelet{A: src.A, T0: src.T0}.Eval
	}
	return
}
