package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"krag/config"
	"krag/internal/usecase"
)

var (
	queryText      string
	queryTopK      int
	queryStrategy  string
	queryThreshold float64
	queryJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search ingested documents",
	Long: `Search for relevant document chunks using vector similarity and the
configured re-ranking strategy.

Examples:
  krag query -q "vector search"
  krag query -q "error handling" --top-k 10 --strategy mmr --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().StringVar(&queryStrategy, "strategy", "", "ranking strategy: similarity, diversity, mmr (default from config)")
	queryCmd.Flags().Float64Var(&queryThreshold, "threshold", -1, "minimum similarity score (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	if cfg.Store.Type == "bolt" {
		dbPath := config.VectorDBPath(rootDir)
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("no vector store found. Run 'krag ingest' first")
		}
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	st, err := newVectorStore(cfg, rootDir, embedder.Dimension())
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer st.Close()

	retrieveUC := usecase.NewRetrieveUseCase(embedder, st, newRanker(cfg, queryStrategy))

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}
	threshold := cfg.Retrieve.SimilarityThreshold
	if queryThreshold >= 0 {
		threshold = queryThreshold
	}

	results, err := retrieveUC.Retrieve(queryText, topK, threshold, nil)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(results), queryText)
	for i, r := range results {
		source := r.Metadata["file_path"]
		if source == "" {
			source = r.Metadata["filename"]
		}
		fmt.Printf("--- [%d] %s (score: %.2f) ---\n", i+1, source, r.Score)
		text := r.Content
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}
