package store

import (
	"path/filepath"
	"testing"

	"krag/internal/port"
)

func openBolt(t *testing.T, dimension int) port.VectorStore {
	t.Helper()
	s, err := NewBoltVectorStore(filepath.Join(t.TempDir(), "vectors.db"), dimension)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func openMemory(t *testing.T, dimension int) port.VectorStore {
	t.Helper()
	s, err := NewMemoryVectorStore(dimension)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func eachStore(t *testing.T, dimension int, fn func(t *testing.T, s port.VectorStore)) {
	t.Run("bolt", func(t *testing.T) { fn(t, openBolt(t, dimension)) })
	t.Run("memory", func(t *testing.T) { fn(t, openMemory(t, dimension)) })
}

func TestUpsertAndSearch(t *testing.T) {
	eachStore(t, 3, func(t *testing.T, s port.VectorStore) {
		texts := []string{"north", "east", "northeast"}
		vectors := [][]float32{
			{1, 0, 0},
			{0, 1, 0},
			{1, 1, 0},
		}

		ids, err := s.Upsert(texts, vectors, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(ids) != 3 {
			t.Fatalf("expected 3 ids, got %d", len(ids))
		}
		seen := make(map[string]bool)
		for _, id := range ids {
			if id == "" || seen[id] {
				t.Errorf("invalid or duplicate id: %q", id)
			}
			seen[id] = true
		}

		results, err := s.Search([]float32{1, 0, 0}, 2, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Content != "north" {
			t.Errorf("expected exact match first, got %q", results[0].Content)
		}
		if results[0].Score < results[1].Score {
			t.Error("results not sorted by score descending")
		}
	})
}

func TestSearchMetadataFilter(t *testing.T) {
	eachStore(t, 2, func(t *testing.T, s port.VectorStore) {
		texts := []string{"a", "b"}
		vectors := [][]float32{{1, 0}, {1, 0}}
		metadatas := []map[string]string{
			{"file_type": "txt"},
			{"file_type": "md"},
		}

		if _, err := s.Upsert(texts, vectors, metadatas); err != nil {
			t.Fatal(err)
		}

		results, err := s.Search([]float32{1, 0}, 10, map[string]string{"file_type": "md"})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 || results[0].Content != "b" {
			t.Errorf("filter not applied: %v", results)
		}
	})
}

func TestDeleteAndStats(t *testing.T) {
	eachStore(t, 2, func(t *testing.T, s port.VectorStore) {
		ids, err := s.Upsert([]string{"a", "b"}, [][]float32{{1, 0}, {0, 1}}, nil)
		if err != nil {
			t.Fatal(err)
		}

		if err := s.Delete(ids[:1]); err != nil {
			t.Fatal(err)
		}

		stats, err := s.Stats()
		if err != nil {
			t.Fatal(err)
		}
		if stats.DocumentCount != 1 {
			t.Errorf("expected 1 document after delete, got %d", stats.DocumentCount)
		}
	})
}

func TestMemoryDeleteCompactsOrder(t *testing.T) {
	s := openMemory(t, 2).(*MemoryVectorStore)

	ids, err := s.Upsert([]string{"a", "b", "c"}, [][]float32{{1, 0}, {0, 1}, {1, 1}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ids[:2]); err != nil {
		t.Fatal(err)
	}

	if len(s.order) != 1 {
		t.Errorf("expected order compacted to 1 id, got %d", len(s.order))
	}
	if s.order[0] != ids[2] {
		t.Errorf("surviving id lost from order: %v", s.order)
	}

	results, err := s.Search([]float32{1, 1}, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Content != "c" {
		t.Errorf("expected only surviving document, got %v", results)
	}
}

func TestDimensionMismatch(t *testing.T) {
	eachStore(t, 3, func(t *testing.T, s port.VectorStore) {
		if _, err := s.Upsert([]string{"a"}, [][]float32{{1, 0}}, nil); err == nil {
			t.Error("expected upsert dimension mismatch error")
		}
		if _, err := s.Search([]float32{1, 0}, 5, nil); err == nil {
			t.Error("expected search dimension mismatch error")
		}
	})
}

func TestBoltPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.db")

	s, err := NewBoltVectorStore(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Upsert([]string{"persisted"}, [][]float32{{1, 0}}, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBoltVectorStore(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	results, err := reopened.Search([]float32{1, 0}, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Content != "persisted" {
		t.Errorf("expected persisted document after reopen, got %v", results)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := cosineSimilarity(tc.a, tc.b)
			diff := got - tc.expected
			if diff < 0 {
				diff = -diff
			}
			if diff > 0.0001 {
				t.Errorf("cosineSimilarity = %f, expected %f", got, tc.expected)
			}
		})
	}
}
