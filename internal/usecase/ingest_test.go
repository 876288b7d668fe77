package usecase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"krag/internal/adapter/chunker"
	"krag/internal/adapter/embedding"
	"krag/internal/adapter/parser"
	"krag/internal/adapter/ranker"
	"krag/internal/adapter/store"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestPipeline(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", strings.Repeat("Useful knowledge here. ", 30))
	empty := writeFile(t, dir, "empty.txt", "   \n ")
	bad := writeFile(t, dir, "image.png", "\x89PNG")

	chk, err := chunker.NewDocumentChunker(100, 20, chunker.StrategySentence)
	if err != nil {
		t.Fatal(err)
	}
	emb := embedding.NewHashEmbedder(64)
	st, err := store.NewMemoryVectorStore(64)
	if err != nil {
		t.Fatal(err)
	}

	uc := NewIngestUseCase(parser.NewTextParser(), chk, emb, st)

	var progressCalls int
	result, err := uc.Ingest([]string{good, empty, bad}, func(processed, total int, path string) {
		progressCalls++
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.FilesProcessed != 1 {
		t.Errorf("expected 1 file processed, got %d", result.FilesProcessed)
	}
	if result.FilesSkipped != 1 {
		t.Errorf("expected 1 file skipped, got %d", result.FilesSkipped)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error for unsupported format, got %v", result.Errors)
	}
	if result.ChunksCreated == 0 {
		t.Error("expected chunks created")
	}
	if progressCalls == 0 {
		t.Error("progress callback never invoked")
	}

	stats, err := st.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.DocumentCount != result.ChunksCreated {
		t.Errorf("store holds %d documents, expected %d", stats.DocumentCount, result.ChunksCreated)
	}
}

func TestIngestThenRetrieveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFileContent := "The capital of France is Paris. " +
		"Paris is known for the Eiffel Tower. " +
		"Bread and cheese are popular there."
	path := writeFile(t, dir, "facts.txt", writeFileContent)

	chk, err := chunker.NewDocumentChunker(40, 10, chunker.StrategySentence)
	if err != nil {
		t.Fatal(err)
	}
	emb := embedding.NewHashEmbedder(128)
	st, err := store.NewMemoryVectorStore(128)
	if err != nil {
		t.Fatal(err)
	}

	ingest := NewIngestUseCase(parser.NewTextParser(), chk, emb, st)
	if _, err := ingest.Ingest([]string{path}, nil); err != nil {
		t.Fatal(err)
	}

	retrieve := NewRetrieveUseCase(emb, st, ranker.NewDocumentRanker(ranker.StrategySimilarity, ranker.DefaultMMRLambda))
	results, err := retrieve.Retrieve("Eiffel Tower Paris", 2, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected retrieval results")
	}
	if !strings.Contains(results[0].Content, "Eiffel") && !strings.Contains(results[0].Content, "Paris") {
		t.Errorf("top result unrelated to query: %q", results[0].Content)
	}
	if results[0].Metadata["filename"] != "facts.txt" {
		t.Errorf("chunk metadata lost: %v", results[0].Metadata)
	}
}
