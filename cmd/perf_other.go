//go:build !linux

package cmd

import "fmt"

func withCounters(enabled bool, f func() error) error {
	if enabled {
		fmt.Println("Hardware counters are only available on linux")
	}
	return f()
}
