package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"krag/internal/domain"
)

// MemoryVectorStore is an in-memory vector store with the same contract as
// BoltVectorStore, without persistence. Used for tests and ephemeral runs.
type MemoryVectorStore struct {
	dimension int

	mu      sync.RWMutex
	order   []string
	entries map[string]storedDocument
}

func NewMemoryVectorStore(dimension int) (*MemoryVectorStore, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension: %d", dimension)
	}
	return &MemoryVectorStore{
		dimension: dimension,
		entries:   make(map[string]storedDocument),
	}, nil
}

func (s *MemoryVectorStore) Upsert(texts []string, vectors [][]float32, metadatas []map[string]string) ([]string, error) {
	if len(texts) != len(vectors) {
		return nil, fmt.Errorf("texts/vectors length mismatch: %d vs %d", len(texts), len(vectors))
	}
	if metadatas != nil && len(metadatas) != len(texts) {
		return nil, fmt.Errorf("texts/metadatas length mismatch: %d vs %d", len(texts), len(metadatas))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(texts))
	for i, text := range texts {
		if len(vectors[i]) != s.dimension {
			return nil, fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(vectors[i]))
		}

		id := uuid.NewString()
		stored := storedDocument{Content: text, Vector: vectors[i]}
		if metadatas != nil {
			stored.Metadata = metadatas[i]
		}
		s.entries[id] = stored
		s.order = append(s.order, id)
		ids[i] = id
	}
	return ids, nil
}

func (s *MemoryVectorStore) Search(vector []float32, k int, filter map[string]string) ([]domain.Candidate, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(vector))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]domain.Candidate, 0, len(s.entries))
	for _, id := range s.order {
		entry, ok := s.entries[id]
		if !ok || !matchesFilter(entry.Metadata, filter) {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Content:  entry.Content,
			Metadata: entry.Metadata,
			Score:    cosineSimilarity(vector, entry.Vector),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if k > 0 && k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates, nil
}

func (s *MemoryVectorStore) Delete(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.entries, id)
	}

	// Compact the iteration order so deleted ids are not skipped over on
	// every subsequent search.
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.entries[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
	return nil
}

func (s *MemoryVectorStore) Stats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Stats{
		DocumentCount: len(s.entries),
		Dimension:     s.dimension,
		StoreType:     "memory",
	}, nil
}

func (s *MemoryVectorStore) Close() error {
	return nil
}
