// Package rentcap implements the tiered rent-increase-cap math and the
// renewal-notice window check from the Dubai rental index rules.
package rentcap

import (
	"math"

	"leasewarden/internal/model"
)

// AllowedIncreasePct returns the maximum legally permitted rent increase
// percentage for the given current rent and benchmark average. The step table
// follows Decree 43/2013: bands on the ratio current/benchmark, inclusive on
// the lower side, with ties favoring the smaller percentage. A missing or
// non-positive benchmark permits no increase at all.
func AllowedIncreasePct(current float64, benchmark *float64) int {
	if benchmark == nil || *benchmark <= 0 {
		return 0
	}
	b := *benchmark
	switch {
	case current >= 0.90*b:
		return 0
	case current >= 0.80*b:
		return 5
	case current >= 0.70*b:
		return 10
	case current >= 0.60*b:
		return 15
	default:
		return 20
	}
}

// ProposedPct returns the percentage increase the proposed rent represents
// over the current rent. The max(current, 1) divisor guards division by zero.
func ProposedPct(current, proposed float64) float64 {
	return (proposed - current) / math.Max(current, 1) * 100
}

// Evaluate computes the slab result for one audit run.
func Evaluate(current, proposed float64, benchmark *float64) model.RentSlabResult {
	return model.RentSlabResult{
		BenchmarkAverage: benchmark,
		MaxAllowedPct:    AllowedIncreasePct(current, benchmark),
		ProposedPct:      ProposedPct(current, proposed),
	}
}
