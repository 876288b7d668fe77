package ranker

import (
	"sort"
	"strings"

	"krag/internal/domain"
)

// Strategy selects how candidates are reordered before presentation.
type Strategy string

const (
	StrategySimilarity Strategy = "similarity"
	StrategyDiversity  Strategy = "diversity"
	StrategyMMR        Strategy = "mmr"
)

// DefaultMMRLambda balances relevance against redundancy when no explicit
// lambda is configured.
const DefaultMMRLambda = 0.5

// DocumentRanker reorders scored candidates. All operations are pure
// functions of their inputs: the input slice and its candidates are never
// mutated, and the ranker is safe for concurrent use.
type DocumentRanker struct {
	strategy Strategy
	lambda   float64
}

// NewDocumentRanker creates a ranker. Lambda outside [0, 1] falls back to
// DefaultMMRLambda; it only affects the mmr strategy.
func NewDocumentRanker(strategy Strategy, lambda float64) *DocumentRanker {
	if lambda < 0 || lambda > 1 {
		lambda = DefaultMMRLambda
	}
	return &DocumentRanker{strategy: strategy, lambda: lambda}
}

// Rank reorders candidates according to the configured strategy. When
// limit > 0 and smaller than the ranked length, the result is truncated
// after ranking so truncation never changes what a strategy considers.
func (r *DocumentRanker) Rank(candidates []domain.Candidate, query string, limit int) []domain.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	var ranked []domain.Candidate
	switch r.strategy {
	case StrategyDiversity:
		ranked = r.rankByDiversity(candidates)
	case StrategyMMR:
		ranked = r.rankByMMR(candidates)
	case StrategySimilarity:
		ranked = rankBySimilarity(candidates)
	default:
		// Unknown strategies degrade to a similarity sort.
		ranked = rankBySimilarity(candidates)
	}

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// FilterByThreshold keeps candidates with Score >= threshold, preserving
// their order. Filtering is idempotent.
func (r *DocumentRanker) FilterByThreshold(candidates []domain.Candidate, threshold float64) []domain.Candidate {
	filtered := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= threshold {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// rankBySimilarity sorts descending by score. The sort is stable so ties
// keep their original relative order.
func rankBySimilarity(candidates []domain.Candidate) []domain.Candidate {
	ranked := make([]domain.Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// rankByDiversity interleaves the upper and lower halves of the
// similarity-sorted list. A cheap, deterministic approximation of result
// diversification that needs no pairwise similarity.
func (r *DocumentRanker) rankByDiversity(candidates []domain.Candidate) []domain.Candidate {
	sorted := rankBySimilarity(candidates)

	mid := (len(sorted) + 1) / 2
	upper := sorted[:mid]
	lower := sorted[mid:]

	interleaved := make([]domain.Candidate, 0, len(sorted))
	for i := 0; i < len(upper) || i < len(lower); i++ {
		if i < len(upper) {
			interleaved = append(interleaved, upper[i])
		}
		if i < len(lower) {
			interleaved = append(interleaved, lower[i])
		}
	}
	return interleaved
}

// rankByMMR greedily selects the candidate maximizing
// lambda*score - (1-lambda)*maxOverlap(selected), where overlap is the
// Jaccard similarity of case-insensitive word sets. The top-scored
// candidate seeds the selection; ties resolve to the earliest remaining
// candidate. Every candidate is eventually selected.
func (r *DocumentRanker) rankByMMR(candidates []domain.Candidate) []domain.Candidate {
	sorted := rankBySimilarity(candidates)
	if len(sorted) == 1 {
		return sorted
	}

	wordSets := make([]map[string]struct{}, len(sorted))
	for i, c := range sorted {
		wordSets[i] = wordSet(c.Content)
	}

	selected := make([]domain.Candidate, 0, len(sorted))
	selectedSets := make([]map[string]struct{}, 0, len(sorted))
	remaining := make([]int, 0, len(sorted)-1)

	selected = append(selected, sorted[0])
	selectedSets = append(selectedSets, wordSets[0])
	for i := 1; i < len(sorted); i++ {
		remaining = append(remaining, i)
	}

	for len(remaining) > 0 {
		bestPos := 0
		bestScore := mmrScore(r.lambda, sorted[remaining[0]].Score, wordSets[remaining[0]], selectedSets)
		for pos := 1; pos < len(remaining); pos++ {
			idx := remaining[pos]
			score := mmrScore(r.lambda, sorted[idx].Score, wordSets[idx], selectedSets)
			if score > bestScore {
				bestScore = score
				bestPos = pos
			}
		}

		idx := remaining[bestPos]
		selected = append(selected, sorted[idx])
		selectedSets = append(selectedSets, wordSets[idx])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	return selected
}

func mmrScore(lambda, relevance float64, words map[string]struct{}, selected []map[string]struct{}) float64 {
	maxOverlap := 0.0
	for _, sel := range selected {
		if overlap := jaccardSimilarity(words, sel); overlap > maxOverlap {
			maxOverlap = overlap
		}
	}
	return lambda*relevance - (1-lambda)*maxOverlap
}

// jaccardSimilarity computes |a∩b| / |a∪b| over word sets; an empty set on
// either side yields zero.
func jaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(content string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(content))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
