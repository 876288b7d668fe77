package port

import "krag/internal/domain"

// VectorStore stores embedded documents and answers nearest-neighbor
// queries ordered by the store's own notion of relevance, descending.
type VectorStore interface {
	// Upsert adds documents with their embeddings and returns the
	// generated ids, one per input text.
	Upsert(texts []string, vectors [][]float32, metadatas []map[string]string) ([]string, error)

	// Search finds the k most similar documents to the query vector.
	// A non-nil filter restricts results to documents whose metadata
	// contains every filter entry.
	Search(vector []float32, k int, filter map[string]string) ([]domain.Candidate, error)

	// Delete removes documents by their ids.
	Delete(ids []string) error

	// Stats reports the current state of the store.
	Stats() (domain.Stats, error)

	Close() error
}
