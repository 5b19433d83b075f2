package LF4

// Evaluator assembles the weak form right hand sides of the elastic system.
// Loads are written into the caller supplied field, which has the shape of the result.
type Evaluator interface {
	// VelocityRHS assembles f(w; s, u): the divergence of stress integrated by parts,
	// central interior fluxes and the absorption term. Free boundaries carry no traction.
	VelocityRHS(s, u, load *Field) error
	// StressRHS assembles g(v; u): the constitutive strain rate integrated by parts,
	// central interior fluxes, the interior trace on boundaries and the source term.
	StressRHS(u, load *Field) error
}

// Forcing is advanced once per timestep to the step's target time, before any sub stage
type Forcing interface {
	Update(t float64) error
}

// Writer receives periodic snapshots of the Old slots. Failures are reported and the run continues.
type Writer interface {
	Write(step int, t float64, u, s *Field) error
}

// WriterFunc adapts a function to the Writer interface
type WriterFunc func(step int, t float64, u, s *Field) error

func (f WriterFunc) Write(step int, t float64, u, s *Field) error { return f(step, t, u, s) }
