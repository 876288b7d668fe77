package ranker

import (
	"reflect"
	"testing"

	"krag/internal/domain"
)

func scores(candidates []domain.Candidate) []float64 {
	out := make([]float64, len(candidates))
	for i, c := range candidates {
		out[i] = c.Score
	}
	return out
}

func TestRankBySimilarity(t *testing.T) {
	r := NewDocumentRanker(StrategySimilarity, DefaultMMRLambda)

	candidates := []domain.Candidate{
		{Content: "a", Score: 0.2},
		{Content: "b", Score: 0.9},
		{Content: "c", Score: 0.5},
	}

	ranked := r.Rank(candidates, "query", 0)
	want := []float64{0.9, 0.5, 0.2}
	if !reflect.DeepEqual(scores(ranked), want) {
		t.Errorf("expected %v, got %v", want, scores(ranked))
	}

	// Input order untouched.
	if candidates[0].Score != 0.2 {
		t.Error("input slice mutated")
	}
}

func TestRankSimilarityStableTies(t *testing.T) {
	r := NewDocumentRanker(StrategySimilarity, DefaultMMRLambda)

	candidates := []domain.Candidate{
		{Content: "first", Score: 0.5},
		{Content: "second", Score: 0.5},
		{Content: "third", Score: 0.9},
	}

	ranked := r.Rank(candidates, "", 0)
	if ranked[1].Content != "first" || ranked[2].Content != "second" {
		t.Errorf("ties not stable: %v", ranked)
	}
}

func TestRankByDiversityInterleave(t *testing.T) {
	r := NewDocumentRanker(StrategyDiversity, DefaultMMRLambda)

	candidates := []domain.Candidate{
		{Content: "c3", Score: 0.3},
		{Content: "c5", Score: 0.5},
		{Content: "c1", Score: 0.1},
		{Content: "c4", Score: 0.4},
		{Content: "c2", Score: 0.2},
	}

	ranked := r.Rank(candidates, "", 0)
	// Upper half [0.5 0.4 0.3] interleaved with lower half [0.2 0.1].
	want := []float64{0.5, 0.2, 0.4, 0.1, 0.3}
	if !reflect.DeepEqual(scores(ranked), want) {
		t.Errorf("expected %v, got %v", want, scores(ranked))
	}
}

func TestRankByMMRPenalizesDuplicates(t *testing.T) {
	r := NewDocumentRanker(StrategyMMR, 0.5)

	candidates := []domain.Candidate{
		{Content: "shared words here", Score: 0.85},
		{Content: "shared words here", Score: 0.9},
		{Content: "completely different tokens", Score: 0.8},
	}

	ranked := r.Rank(candidates, "", 0)
	if len(ranked) != 3 {
		t.Fatalf("mmr must not drop candidates, got %d", len(ranked))
	}
	if ranked[0].Score != 0.9 {
		t.Errorf("expected highest-relevance seed, got %v", ranked[0])
	}
	// The exact duplicate takes a full Jaccard penalty, so the diverse
	// candidate outranks it despite the lower relevance.
	if ranked[1].Content != "completely different tokens" {
		t.Errorf("expected diverse candidate second, got %q", ranked[1].Content)
	}
	if ranked[2].Score != 0.85 {
		t.Errorf("expected duplicate last, got %v", ranked[2])
	}
}

func TestRankByMMRSingleCandidate(t *testing.T) {
	r := NewDocumentRanker(StrategyMMR, 0.5)

	ranked := r.Rank([]domain.Candidate{{Content: "only", Score: 0.4}}, "", 0)
	if len(ranked) != 1 || ranked[0].Content != "only" {
		t.Errorf("unexpected result: %v", ranked)
	}
}

func TestRankEmptyInput(t *testing.T) {
	for _, s := range []Strategy{StrategySimilarity, StrategyDiversity, StrategyMMR} {
		r := NewDocumentRanker(s, DefaultMMRLambda)
		if ranked := r.Rank(nil, "", 10); len(ranked) != 0 {
			t.Errorf("strategy %s: expected empty output, got %v", s, ranked)
		}
	}
}

func TestRankUnknownStrategyFallsBack(t *testing.T) {
	r := NewDocumentRanker(Strategy("learned"), DefaultMMRLambda)

	candidates := []domain.Candidate{
		{Content: "a", Score: 0.1},
		{Content: "b", Score: 0.7},
	}
	ranked := r.Rank(candidates, "", 0)
	if ranked[0].Score != 0.7 {
		t.Errorf("expected similarity fallback, got %v", scores(ranked))
	}
}

func TestRankLimitTruncatesAfterRanking(t *testing.T) {
	candidates := []domain.Candidate{
		{Content: "alpha beta", Score: 0.9},
		{Content: "alpha beta", Score: 0.8},
		{Content: "gamma delta", Score: 0.7},
		{Content: "epsilon zeta", Score: 0.6},
	}

	for _, s := range []Strategy{StrategySimilarity, StrategyDiversity, StrategyMMR} {
		r := NewDocumentRanker(s, DefaultMMRLambda)

		full := r.Rank(candidates, "", 0)
		limited := r.Rank(candidates, "", 2)

		if len(limited) != 2 {
			t.Errorf("strategy %s: expected 2 results, got %d", s, len(limited))
		}
		if !reflect.DeepEqual(limited, full[:2]) {
			t.Errorf("strategy %s: limited result diverges from ranked prefix", s)
		}
	}
}

func TestFilterByThreshold(t *testing.T) {
	r := NewDocumentRanker(StrategySimilarity, DefaultMMRLambda)

	candidates := []domain.Candidate{
		{Content: "a", Score: 0.3},
		{Content: "b", Score: 0.7},
		{Content: "c", Score: 0.7},
		{Content: "d", Score: 0.9},
	}

	filtered := r.FilterByThreshold(candidates, 0.7)
	want := []float64{0.7, 0.7, 0.9}
	if !reflect.DeepEqual(scores(filtered), want) {
		t.Errorf("expected %v, got %v", want, scores(filtered))
	}

	// Idempotent at the same threshold.
	again := r.FilterByThreshold(filtered, 0.7)
	if !reflect.DeepEqual(again, filtered) {
		t.Error("filtering an already-filtered set changed it")
	}
}

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical", "a b c", "a b c", 1.0},
		{"case insensitive", "Auth Login", "auth login", 1.0},
		{"no overlap", "a b c", "d e f", 0.0},
		{"half overlap", "a b", "b c", 1.0 / 3.0},
		{"empty side", "", "a b", 0.0},
		{"both empty", "", "", 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := jaccardSimilarity(wordSet(tc.a), wordSet(tc.b))
			if !floatEquals(got, tc.expected, 0.001) {
				t.Errorf("jaccard(%q, %q) = %f, expected %f", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func floatEquals(a, b, tolerance float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < tolerance
}
