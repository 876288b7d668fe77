package cli

import (
	"fmt"

	"krag/config"
	"krag/internal/adapter/chunker"
	"krag/internal/adapter/embedding"
	"krag/internal/adapter/llm"
	"krag/internal/adapter/ranker"
	"krag/internal/adapter/store"
	"krag/internal/port"
)

// newEmbedder builds the embedding provider selected in config.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	e := cfg.Embedding
	switch e.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(e.APIKeyEnv, e.Model, e.Dimension, e.BatchSize)
	case "ollama":
		return embedding.NewOllamaEmbedder(e.Model, e.BaseURL, e.Dimension, e.BatchSize), nil
	case "compatible":
		return embedding.NewOpenAICompatibleEmbedder(e.APIKeyEnv, e.Model, e.BaseURL, e.Dimension, e.BatchSize)
	case "hash":
		return embedding.NewHashEmbedder(e.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", e.Provider)
	}
}

// newVectorStore opens the vector store selected in config. The bolt
// store lives under .krag/ in the root directory.
func newVectorStore(cfg *config.Config, rootDir string, dimension int) (port.VectorStore, error) {
	switch cfg.Store.Type {
	case "bolt":
		if err := config.EnsureDataDir(rootDir); err != nil {
			return nil, fmt.Errorf("failed to create .krag directory: %w", err)
		}
		return store.NewBoltVectorStore(config.VectorDBPath(rootDir), dimension)
	case "memory":
		return store.NewMemoryVectorStore(dimension)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Store.Type)
	}
}

func newChunker(cfg *config.Config) (port.Chunker, error) {
	return chunker.NewDocumentChunker(cfg.Chunking.Size, cfg.Chunking.Overlap, chunker.Strategy(cfg.Chunking.Strategy))
}

func newRanker(cfg *config.Config, strategy string) port.Ranker {
	if strategy == "" {
		strategy = cfg.Retrieve.Strategy
	}
	return ranker.NewDocumentRanker(ranker.Strategy(strategy), cfg.Retrieve.MMRLambda)
}

// newLLM builds the synthesis backend, or returns nil when synthesis
// is disabled.
func newLLM(cfg *config.Config) (port.LLM, error) {
	if !cfg.LLM.Enabled {
		return nil, nil
	}
	l := cfg.LLM
	switch l.Provider {
	case "openai":
		return llm.NewOpenAILLM(l.APIKeyEnv, l.Model, l.BaseURL, l.Temperature, l.MaxTokens)
	case "anthropic":
		return llm.NewAnthropicLLM(l.APIKeyEnv, l.Model, l.MaxTokens)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", l.Provider)
	}
}
