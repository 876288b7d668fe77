package store

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"krag/internal/domain"
)

var bucketDocuments = []byte("documents")

// BoltVectorStore persists embedded documents in BoltDB and answers
// nearest-neighbor queries with brute-force cosine similarity over an
// in-memory cache. Brute force is adequate for collections in the
// thousands; swap in an ANN index behind the same port beyond that.
type BoltVectorStore struct {
	db        *bbolt.DB
	dimension int

	mu      sync.RWMutex
	entries map[string]storedDocument
}

type storedDocument struct {
	Content  string            `json:"c"`
	Vector   []float32         `json:"v"`
	Metadata map[string]string `json:"m,omitempty"`
}

// NewBoltVectorStore opens (or creates) the store at path.
func NewBoltVectorStore(path string, dimension int) (*BoltVectorStore, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension: %d", dimension)
	}

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDocuments)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents bucket: %w", err)
	}

	s := &BoltVectorStore{
		db:        db,
		dimension: dimension,
		entries:   make(map[string]storedDocument),
	}
	if err := s.loadEntries(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load vector store: %w", err)
	}
	return s, nil
}

func (s *BoltVectorStore) loadEntries() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var stored storedDocument
			if err := json.Unmarshal(v, &stored); err != nil {
				return nil // skip corrupted entries
			}
			s.entries[string(k)] = stored
			return nil
		})
	})
}

// Upsert stores documents with their embeddings and returns the generated
// ids, one per text, in input order.
func (s *BoltVectorStore) Upsert(texts []string, vectors [][]float32, metadatas []map[string]string) ([]string, error) {
	if len(texts) != len(vectors) {
		return nil, fmt.Errorf("texts/vectors length mismatch: %d vs %d", len(texts), len(vectors))
	}
	if metadatas != nil && len(metadatas) != len(texts) {
		return nil, fmt.Errorf("texts/metadatas length mismatch: %d vs %d", len(texts), len(metadatas))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(texts))
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		if b == nil {
			return fmt.Errorf("documents bucket not found")
		}

		for i, text := range texts {
			if len(vectors[i]) != s.dimension {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(vectors[i]))
			}

			id := uuid.NewString()
			stored := storedDocument{
				Content: text,
				Vector:  vectors[i],
			}
			if metadatas != nil {
				stored.Metadata = metadatas[i]
			}

			data, err := json.Marshal(stored)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(id), data); err != nil {
				return err
			}

			s.entries[id] = stored
			ids[i] = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Search returns the k most similar documents, descending by cosine
// similarity. A non-nil filter keeps only documents whose metadata
// contains every filter entry.
func (s *BoltVectorStore) Search(vector []float32, k int, filter map[string]string) ([]domain.Candidate, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(vector))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return nil, nil
	}

	candidates := make([]domain.Candidate, 0, len(s.entries))
	for _, entry := range s.entries {
		if !matchesFilter(entry.Metadata, filter) {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Content:  entry.Content,
			Metadata: entry.Metadata,
			Score:    cosineSimilarity(vector, entry.Vector),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if k > 0 && k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// Delete removes documents by their ids.
func (s *BoltVectorStore) Delete(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		if b == nil {
			return nil
		}
		for _, id := range ids {
			if err := b.Delete([]byte(id)); err != nil {
				return err
			}
			delete(s.entries, id)
		}
		return nil
	})
}

// Stats reports the current document count.
func (s *BoltVectorStore) Stats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Stats{
		DocumentCount: len(s.entries),
		Dimension:     s.dimension,
		StoreType:     "bolt",
	}, nil
}

func (s *BoltVectorStore) Close() error {
	return s.db.Close()
}

func matchesFilter(metadata, filter map[string]string) bool {
	for k, v := range filter {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
