package port

import "krag/internal/domain"

type Chunker interface {
	Chunk(text string, metadata map[string]string) []domain.Chunk
}
