package Elastic1D

import (
	"context"
	"fmt"
	"time"

	"github.com/notargets/elasticlf4/LF4"
	"github.com/notargets/elasticlf4/utils"
)

// Run drives the stepper to finalTime and reports timing, memory and the final energy
func Run(ctx context.Context, c *Elastic, st *LF4.Stepper, finalTime float64) (err error) {
	var (
		start  = time.Now()
		steps0 = st.Steps()
		e0     = c.Energy(st.Velocity(), st.Stress())
	)
	err = st.Run(ctx, finalTime)
	elapsed := time.Since(start)
	nSteps := st.Steps() - steps0
	fmt.Printf("Completed %d steps to Time = %8.4f in %v", nSteps, st.Time(), elapsed)
	if nSteps > 0 {
		fmt.Printf(", %v per step", elapsed/time.Duration(nSteps))
	}
	fmt.Printf(", %s\n", utils.GetMemUsage())
	if err != nil {
		return
	}
	fmt.Printf("Energy: initial = %12.8e, final = %12.8e\n", e0, c.Energy(st.Velocity(), st.Stress()))
	return
}
