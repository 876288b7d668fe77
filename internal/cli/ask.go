package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"krag/internal/usecase"
)

var (
	askText string
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question and synthesize an answer",
	Long: `Retrieve relevant chunks and synthesize an answer with the configured
LLM. When no LLM is enabled the raw retrieved context is returned.

Examples:
  krag ask -q "how does ingestion work?"
  krag ask -q "what is the retry policy?" --top-k 10`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askText, "query", "q", "", "question to answer (required)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	st, err := newVectorStore(cfg, rootDir, embedder.Dimension())
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer st.Close()

	retrieveUC := usecase.NewRetrieveUseCase(embedder, st, newRanker(cfg, ""))

	topK := cfg.Retrieve.TopK
	if askTopK > 0 {
		topK = askTopK
	}

	candidates, err := retrieveUC.Retrieve(askText, topK, cfg.Retrieve.SimilarityThreshold, nil)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	model, err := newLLM(cfg)
	if err != nil {
		return fmt.Errorf("failed to create llm: %w", err)
	}

	answer, err := usecase.NewSynthesizeUseCase(model).Synthesize(askText, candidates)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	if askJSON {
		output, _ := json.MarshalIndent(answer, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(answer.Answer)
	if answer.Model != "" {
		fmt.Printf("\n(model: %s)\n", answer.Model)
	}
	if len(answer.Sources) > 0 {
		fmt.Printf("\nSources:\n")
		for i, s := range answer.Sources {
			source := s.Metadata["file_path"]
			if source == "" {
				source = s.Metadata["filename"]
			}
			fmt.Printf("  [%d] %s (score: %.2f)\n", i+1, source, s.Score)
		}
	}

	return nil
}
