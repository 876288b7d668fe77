package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the knowledge-base tool.
type Config struct {
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Store     StoreConfig     `yaml:"store"`
	LLM       LLMConfig       `yaml:"llm"`
	Ingest    IngestConfig    `yaml:"ingest"`
}

// ChunkingConfig controls how documents are split before embedding.
type ChunkingConfig struct {
	Size     int    `yaml:"size"`     // max chunk length in characters
	Overlap  int    `yaml:"overlap"`  // characters shared between consecutive chunks
	Strategy string `yaml:"strategy"` // "character", "sentence", "paragraph"
}

// RetrieveConfig controls the query path.
type RetrieveConfig struct {
	TopK                int     `yaml:"top_k"`
	Strategy            string  `yaml:"strategy"` // "similarity", "diversity", "mmr"
	MMRLambda           float64 `yaml:"mmr_lambda"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"` // filter results below this score (0 = disabled)
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "openai", "ollama", "hash"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	Type string `yaml:"type"` // "bolt", "memory"
}

// LLMConfig configures answer synthesis.
type LLMConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Provider    string  `yaml:"provider"` // "openai", "anthropic"
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// IngestConfig controls which files the ingest command picks up.
type IngestConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Size:     500,
			Overlap:  50,
			Strategy: "character",
		},
		Retrieve: RetrieveConfig{
			TopK:                5,
			Strategy:            "similarity",
			MMRLambda:           0.5,
			SimilarityThreshold: 0.7,
		},
		Embedding: EmbeddingConfig{
			Provider:  "hash", // works offline; switch to "openai" for real embeddings
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 256,
			BatchSize: 100,
		},
		Store: StoreConfig{
			Type: "bolt",
		},
		LLM: LLMConfig{
			Enabled:     false,
			Provider:    "openai",
			Model:       "gpt-3.5-turbo",
			APIKeyEnv:   "OPENAI_API_KEY",
			Temperature: 0.7,
			MaxTokens:   500,
		},
		Ingest: IngestConfig{
			Includes: []string{"**/*.txt", "**/*.md", "**/*.markdown"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/.krag/**"},
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (krag.yaml, then
// .krag/config.yaml), falling back to defaults.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "krag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".krag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// VectorDBPath returns the path to the vector database.
func VectorDBPath(dir string) string {
	return filepath.Join(dir, ".krag", "vectors.db")
}

// EnsureDataDir ensures the .krag directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".krag"), 0755)
}
