package domain

// Chunk is one bounded, possibly overlapping slice of an input text
// produced by segmentation. Index is zero-based and contiguous within one
// chunking call. Metadata is an independent copy per chunk.
type Chunk struct {
	Content  string            `json:"content"`
	Index    int               `json:"chunk_index"`
	Metadata map[string]string `json:"metadata"`
}

// Candidate is a scored content item returned by similarity search.
// Score is a similarity score in a caller-defined range; higher is more
// relevant. Ranking never mutates Content or Score.
type Candidate struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score"`
}

// ParsedDocument is the output of the document parsing collaborator.
type ParsedDocument struct {
	Content  string
	Metadata map[string]string
}

// Stats describes the state of a vector store.
type Stats struct {
	DocumentCount int    `json:"document_count"`
	Dimension     int    `json:"dimension"`
	StoreType     string `json:"store_type"`
}

// Answer is a synthesized response with the candidates it was built from.
type Answer struct {
	Answer  string      `json:"answer"`
	Model   string      `json:"model,omitempty"`
	Sources []Candidate `json:"sources"`
}
