package embedding

import "testing"

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder(64)

	a, err := e.Embed([]string{"vector search engine"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed([]string{"vector search engine"})
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 1 || len(a[0]) != 64 {
		t.Fatalf("unexpected shape: %d vectors", len(a))
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatal("embedding not deterministic")
		}
	}
}

func TestHashEmbedderOrderPreserving(t *testing.T) {
	e := NewHashEmbedder(32)

	vectors, err := e.Embed([]string{"first", "second", "third"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}

	single, _ := e.Embed([]string{"second"})
	for i := range single[0] {
		if vectors[1][i] != single[0][i] {
			t.Fatal("batch embedding differs from single embedding")
		}
	}
}

func TestHashEmbedderEmptyInput(t *testing.T) {
	e := NewHashEmbedder(32)

	vectors, err := e.Embed(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 0 {
		t.Errorf("expected no vectors, got %d", len(vectors))
	}
}

func TestHashEmbedderNormalized(t *testing.T) {
	e := NewHashEmbedder(32)

	vectors, err := e.Embed([]string{"normalize this text please"})
	if err != nil {
		t.Fatal(err)
	}

	var norm float64
	for _, v := range vectors[0] {
		norm += float64(v) * float64(v)
	}
	if norm < 0.999 || norm > 1.001 {
		t.Errorf("expected unit norm, got %f", norm)
	}
}
