package port

import "krag/internal/domain"

// Ranker reorders a candidate set for final presentation. Rank never
// increases the candidate count: the output is a permutation of the input,
// truncated to limit when limit > 0.
type Ranker interface {
	Rank(candidates []domain.Candidate, query string, limit int) []domain.Candidate

	// FilterByThreshold keeps candidates with Score >= threshold,
	// preserving order.
	FilterByThreshold(candidates []domain.Candidate, threshold float64) []domain.Candidate
}
