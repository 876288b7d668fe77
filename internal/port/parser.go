package port

import "krag/internal/domain"

// Parser extracts text content and file metadata from a document on disk.
type Parser interface {
	Parse(path string) (domain.ParsedDocument, error)
}
