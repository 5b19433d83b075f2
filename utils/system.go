package utils

import (
	"fmt"
	"math"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case Matrix:
		return IsNan(v.DataP)
	case [2]Matrix:
		for n := 0; n < 2; n++ {
			if IsNan(v[n].DataP) {
				return true
			}
		}
	case Vector:
		return IsNan(v.DataP)
	}
	return false
}

// IsFinite reports false if any entry is NaN or Inf, along with the first offending index
func IsFinite(data []float64) (ok bool, index int) {
	for i, f := range data {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false, i
		}
	}
	return true, -1
}
