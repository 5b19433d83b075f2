//go:build linux

package cmd

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

// withCounters runs f and reports the retired instruction count when counting is enabled
func withCounters(enabled bool, f func() error) (err error) {
	if !enabled {
		return f()
	}
	var (
		ran    bool
		runErr error
	)
	pv, err := perf.CPUInstructions(func() error {
		ran = true
		runErr = f()
		return runErr
	})
	if !ran {
		// The counter could not be opened, run without it
		fmt.Printf("Hardware counters unavailable: %v\n", err)
		return f()
	}
	if runErr != nil || err != nil {
		if runErr == nil {
			fmt.Printf("Hardware counters unavailable: %v\n", err)
		}
		return runErr
	}
	fmt.Printf("CPU Instructions = %d, time enabled = %d ns, time running = %d ns\n",
		pv.Value, pv.TimeEnabled, pv.TimeRunning)
	return
}
