package usecase

import (
	"fmt"

	"krag/internal/port"
)

// IngestUseCase runs the ingestion path: parse each document, chunk it,
// embed the chunks, and upsert them into the vector store. Files are
// processed independently and in order; one bad document never aborts the
// batch.
type IngestUseCase struct {
	parser   port.Parser
	chunker  port.Chunker
	embedder port.Embedder
	store    port.VectorStore
}

func NewIngestUseCase(parser port.Parser, chunker port.Chunker, embedder port.Embedder, store port.VectorStore) *IngestUseCase {
	return &IngestUseCase{
		parser:   parser,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
	}
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	FilesProcessed int
	FilesSkipped   int
	ChunksCreated  int
	Errors         []string
}

// ProgressFunc reports per-file progress to the caller.
type ProgressFunc func(processed, total int, path string)

// Ingest processes the given files. Per-file failures are recorded in the
// result and the remaining files still run.
func (u *IngestUseCase) Ingest(paths []string, progress ProgressFunc) (*IngestResult, error) {
	result := &IngestResult{}

	for i, path := range paths {
		if progress != nil {
			progress(i, len(paths), path)
		}

		chunksCreated, err := u.ingestFile(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if chunksCreated == 0 {
			result.FilesSkipped++
			continue
		}

		result.FilesProcessed++
		result.ChunksCreated += chunksCreated
	}

	if progress != nil {
		progress(len(paths), len(paths), "")
	}
	return result, nil
}

func (u *IngestUseCase) ingestFile(path string) (int, error) {
	doc, err := u.parser.Parse(path)
	if err != nil {
		return 0, err
	}

	chunks := u.chunker.Chunk(doc.Content, doc.Metadata)
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	metadatas := make([]map[string]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
		chunk.Metadata["chunk_index"] = fmt.Sprintf("%d", chunk.Index)
		metadatas[i] = chunk.Metadata
	}

	vectors, err := u.embedder.Embed(texts)
	if err != nil {
		return 0, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(texts))
	}

	if _, err := u.store.Upsert(texts, vectors, metadatas); err != nil {
		return 0, fmt.Errorf("upsert failed: %w", err)
	}
	return len(chunks), nil
}
