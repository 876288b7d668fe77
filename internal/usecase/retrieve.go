package usecase

import (
	"fmt"
	"strings"

	"krag/internal/domain"
	"krag/internal/port"
)

// RetrieveUseCase sequences the query path: embed the query, search the
// vector store, threshold-filter, then rank. Threshold filtering always
// happens before ranking so strategies like MMR never spend diversity
// budget on sub-threshold candidates.
type RetrieveUseCase struct {
	embedder port.Embedder
	store    port.VectorStore
	ranker   port.Ranker
}

func NewRetrieveUseCase(embedder port.Embedder, store port.VectorStore, ranker port.Ranker) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder: embedder,
		store:    store,
		ranker:   ranker,
	}
}

// Retrieve returns the topK best candidates for the query. An empty or
// whitespace-only query short-circuits to an empty result without touching
// the embedder or the store. Collaborator failures are surfaced unchanged;
// there are no retries and no partial results.
func (u *RetrieveUseCase) Retrieve(query string, topK int, threshold float64, filter map[string]string) ([]domain.Candidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	embeddings, err := u.embedder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}

	// Oversample so thresholding and reranking still have topK viable
	// candidates to choose from.
	candidates, err := u.store.Search(embeddings[0], topK*2, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if threshold > 0 {
		candidates = u.ranker.FilterByThreshold(candidates, threshold)
	}

	return u.ranker.Rank(candidates, query, topK), nil
}

// RetrieveBatch runs Retrieve for each query in order. A failure on one
// query is recorded and the remaining queries still run; the failed slot
// holds an empty result.
func (u *RetrieveUseCase) RetrieveBatch(queries []string, topK int, threshold float64) ([][]domain.Candidate, []string) {
	results := make([][]domain.Candidate, len(queries))
	var errs []string

	for i, query := range queries {
		candidates, err := u.Retrieve(query, topK, threshold, nil)
		if err != nil {
			errs = append(errs, fmt.Sprintf("query %q: %v", query, err))
			continue
		}
		results[i] = candidates
	}
	return results, errs
}

// Stats reports the state of the underlying vector store.
func (u *RetrieveUseCase) Stats() (domain.Stats, error) {
	return u.store.Stats()
}
