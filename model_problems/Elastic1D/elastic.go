package Elastic1D

import (
	"fmt"
	"math"

	"github.com/notargets/elasticlf4/DG1D"
	"github.com/notargets/elasticlf4/LF4"
	"github.com/notargets/elasticlf4/utils"
)

// Elastic is a nodal DG discretization of the 1D elastic wave system with
// central fluxes. It assembles the weak form loads for the LF4 stepper.
type Elastic struct {
	Params        LF4.Parameters
	El            *DG1D.Elements1D
	Mref, Sref    utils.Matrix
	Sigma         utils.Matrix // absorption coefficient at the nodes
	Source        utils.Matrix // current source term at the nodes
	profile       utils.Matrix
	wavelet       func(t float64) float64
	boundaryFace  []bool
	hasAbsorption bool
	hasSource     bool
}

func NewElastic(params LF4.Parameters, N, K int, xmin, xmax float64) (c *Elastic, err error) {
	if err = params.Validate(); err != nil {
		return
	}
	switch {
	case N < 1:
		err = fmt.Errorf("%w: polynomial order must be at least 1, got %d", LF4.ErrConfig, N)
	case K < 1:
		err = fmt.Errorf("%w: need at least one element, got %d", LF4.ErrConfig, K)
	case !(xmax > xmin):
		err = fmt.Errorf("%w: domain [%v,%v] is empty", LF4.ErrConfig, xmin, xmax)
	}
	if err != nil {
		return
	}
	VX, EToV := DG1D.SimpleMesh1D(xmin, xmax, K)
	c = &Elastic{
		Params: params,
		El:     DG1D.NewElements1D(N, VX, EToV),
	}
	c.Mref = c.El.MassMatrix()
	c.Sref = c.El.Stiffness()
	c.Mref.SetReadOnly("Mref")
	c.Sref.SetReadOnly("Sref")
	c.boundaryFace = make([]bool, c.El.NFaces*c.El.K)
	for _, fi := range c.El.MapB {
		c.boundaryFace[fi] = true
	}
	c.Sigma = utils.NewMatrix(c.El.Np, c.El.K)
	c.Source = utils.NewMatrix(c.El.Np, c.El.K)
	fmt.Printf("Polynomial Degree N = %d (1 is linear), Num Elements K = %d, Domain = [%g,%g]\n%v\n",
		N, K, xmin, xmax, params)
	return
}

// SetAbsorption samples the damping coefficient sigma(x) >= 0 at the nodes
func (c *Elastic) SetAbsorption(sigma func(x float64) float64) (err error) {
	S := c.El.Interpolate(sigma)
	if ok, _ := utils.IsFinite(S.DataP); !ok || S.Min() < 0 {
		return fmt.Errorf("%w: absorption must be finite and non-negative", LF4.ErrConfig)
	}
	c.Sigma = S
	c.hasAbsorption = S.Max() > 0
	return
}

// SetSource defines a separable stress source profile(x)*wavelet(t), evaluated by Update
func (c *Elastic) SetSource(profile func(x float64) float64, wavelet func(t float64) float64) (err error) {
	if profile == nil || wavelet == nil {
		return fmt.Errorf("%w: source needs both a profile and a wavelet", LF4.ErrConfig)
	}
	P := c.El.Interpolate(profile)
	if ok, _ := utils.IsFinite(P.DataP); !ok {
		return fmt.Errorf("%w: source profile is not finite", LF4.ErrConfig)
	}
	c.profile = P
	c.wavelet = wavelet
	c.hasSource = true
	return
}

// Update freezes the source at time t for the whole timestep
func (c *Elastic) Update(t float64) (err error) {
	if !c.hasSource {
		return
	}
	w := c.wavelet(t)
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("source wavelet is not finite at t = %v", t)
	}
	c.Source.Assign(c.profile).Scale(w)
	return
}

func (c *Elastic) checkFields(fields ...*LF4.Field) error {
	for _, f := range fields {
		if f == nil {
			return fmt.Errorf("%w: nil field", LF4.ErrConfig)
		}
		nc, Np, K := f.Shape()
		if nc != 1 || f.Dim != 1 || Np != c.El.Np || K != c.El.K {
			return fmt.Errorf("%w: field %s is not a 1D field on %d x %d nodes", LF4.ErrConfig, f.Name, c.El.Np, c.El.K)
		}
	}
	return nil
}

// VelocityRHS assembles -S*s + interior nx*avg(s) - M*(sigma u); boundaries are traction free
func (c *Elastic) VelocityRHS(s, u, load *LF4.Field) (err error) {
	if err = c.checkFields(s, u, load); err != nil {
		return
	}
	var (
		S, U, L = s.Comp[0], u.Comp[0], load.Comp[0]
	)
	c.Sref.MulTo(S, L).Scale(-1)
	c.addCentralFlux(S, L, 1, true)
	if c.hasAbsorption {
		L.Subtract(c.massMul(U.Copy().ElMul(c.Sigma)))
	}
	return
}

// StressRHS assembles (lambda+2mu)*(-S*u + nx*avg(u)) + M*source, the boundary uses the interior trace of u
func (c *Elastic) StressRHS(u, load *LF4.Field) (err error) {
	if err = c.checkFields(u, load); err != nil {
		return
	}
	var (
		U, L    = u.Comp[0], load.Comp[0]
		modulus = c.Params.Modulus()
	)
	c.Sref.MulTo(U, L).Scale(-modulus)
	c.addCentralFlux(U, L, modulus, false)
	if c.hasSource {
		L.Add(c.massMul(c.Source))
	}
	return
}

// addCentralFlux adds scale*nx*avg(F) at every face node. Boundary faces map onto
// themselves, so the average there is the interior trace.
func (c *Elastic) addCentralFlux(F, L utils.Matrix, scale float64, interiorOnly bool) {
	var (
		el = c.El
	)
	for fi, vM := range el.VmapM {
		if interiorOnly && c.boundaryFace[fi] {
			continue
		}
		avg := 0.5 * (F.DataP[vM] + F.DataP[el.VmapP[fi]])
		L.DataP[vM] += scale * el.NX.DataP[fi] * avg
	}
}

// massMul applies the element mass matrices, J_k * Mref * F_k
func (c *Elastic) massMul(F utils.Matrix) utils.Matrix {
	return c.Mref.Mul(F).ElMul(c.El.J)
}

// BlockMass returns the element mass blocks for the mass operators
func (c *Elastic) BlockMass() LF4.BlockMass {
	return LF4.BlockMass{Np: c.El.Np, K: c.El.K, Blocks: c.El.ElementMass()}
}

// MassOperators builds the density weighted velocity mass and the stress mass
func (c *Elastic) MassOperators(kind LF4.MassKind) (massU, massS LF4.MassOperator, err error) {
	bm := c.BlockMass()
	if massU, err = LF4.NewMassOperator(kind, bm, c.Params.Density); err != nil {
		return
	}
	massS, err = LF4.NewMassOperator(kind, bm, 1)
	return
}

// NewVelocity samples f at the nodes
func (c *Elastic) NewVelocity(f func(x float64) float64) *LF4.Field {
	u := LF4.NewField("Velocity", LF4.VectorRank, 1, c.El.Np, c.El.K)
	if f != nil {
		u.Comp[0].Assign(c.El.Interpolate(f))
	}
	return u
}

// NewStress samples f at the nodes
func (c *Elastic) NewStress(f func(x float64) float64) *LF4.Field {
	s := LF4.NewField("Stress", LF4.TensorRank, 1, c.El.Np, c.El.K)
	if f != nil {
		s.Comp[0].Assign(c.El.Interpolate(f))
	}
	return s
}

// Energy is 1/2 rho u^T M u + 1/2 s^T M s / (lambda + 2 mu)
func (c *Elastic) Energy(u, s *LF4.Field) float64 {
	return 0.5*c.Params.Density*c.innerProduct(u.Comp[0], u.Comp[0]) +
		0.5*c.innerProduct(s.Comp[0], s.Comp[0])/c.Params.Modulus()
}

func (c *Elastic) innerProduct(A, B utils.Matrix) (sum float64) {
	MB := c.massMul(B)
	for i, a := range A.DataP {
		sum += a * MB.DataP[i]
	}
	return
}

// L2Error is the mass weighted norm of f - exact
func (c *Elastic) L2Error(f *LF4.Field, exact func(x float64) float64) float64 {
	e := f.Comp[0].Copy().Subtract(c.El.Interpolate(exact))
	return math.Sqrt(math.Max(c.innerProduct(e, e), 0))
}

// MinNodeSpacing is the length scale used in the CFL condition
func (c *Elastic) MinNodeSpacing() float64 { return c.El.MinNodeSpacing() }

// Coordinates returns the node locations in increasing order, matching Values
func (c *Elastic) Coordinates() []float64 { return c.El.X.Transpose().DataP }

// Values returns a field component in the order of Coordinates
func Values(f *LF4.Field) []float64 { return f.Comp[0].Transpose().DataP }
