package LF4

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks invalid setup: parameters, shapes, operators or timestep
	ErrConfig = errors.New("invalid configuration")
	// ErrDivergence marks a run aborted because a field became non-finite
	ErrDivergence = errors.New("solution diverged")
)

// DivergenceError reports the first sub-stage result holding a NaN or Inf
type DivergenceError struct {
	Step  int
	Time  float64
	Field string
	Index int
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%v: non-finite value in %s[%d] at step %d, time %8.5f",
		ErrDivergence, e.Field, e.Index, e.Step, e.Time)
}

func (e *DivergenceError) Unwrap() error { return ErrDivergence }

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
