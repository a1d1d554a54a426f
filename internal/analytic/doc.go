// Package analytic evaluates the closed-form steady-state measures of the
// Markovian queues M/M/1, M/M/1/K, M/M/c and M/M/c/K.
//
// Resolve validates a models.QueueParameters once, picks the variant and
// precomputes the constants each variant's formulas share (ρ, ρ^K, P0, ...).
// The returned Model is immutable; its accessors never fail and never branch
// on which variant they belong to.
//
// Conventions:
//   - single server: ρ = λ/μ
//   - multi-server:  r = λ/μ, ρ = r/c
//   - Pk(k) is the full steady-state distribution; it is 0 outside 0..K.
package analytic
