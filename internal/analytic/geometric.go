package analytic

import "math"

// nearOneTol bounds |ρ-1|·(n+1) below which the truncated geometric sums use
// their first-order expansion around ρ = 1. Above it the closed forms lose at
// most about 1e-10 relative precision to cancellation, and below it the
// expansion's truncation error is smaller still.
const nearOneTol = 1e-6

// nearOne reports whether ρ is close enough to one, for a sum over n+1 terms,
// that the closed forms would cancel catastrophically.
func nearOne(rho float64, n int) bool {
	return math.Abs(rho-1)*float64(n+1) < nearOneTol
}

// geomSum returns Σ_{j<m} ρ^j.
func geomSum(rho float64, m int) float64 {
	n := float64(m)
	d := rho - 1
	if nearOne(rho, m) {
		return n + d*n*(n-1)/2
	}
	return math.Expm1(n*math.Log1p(d)) / d
}

// geomMean returns the mean of the distribution proportional to ρ^j on
// 0..n. It is L for an M/M/1/K queue with K = n.
func geomMean(rho float64, n int) float64 {
	N := float64(n)
	d := rho - 1
	if nearOne(rho, n) {
		return N/2 + d*N*(N+2)/12
	}
	return -rho/d - (N+1)/math.Expm1(-(N+1)*math.Log1p(d))
}
