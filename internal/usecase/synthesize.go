package usecase

import (
	"fmt"
	"strings"

	"krag/internal/domain"
	"krag/internal/port"
)

const synthesisSystemPrompt = `You are a helpful assistant that answers questions based on the provided context. Always cite your sources when providing information. If the context doesn't contain enough information to answer the question, say so.`

// SynthesizeUseCase turns ranked candidates into a generated answer. With
// no LLM configured it falls back to returning the top sources verbatim.
type SynthesizeUseCase struct {
	llm port.LLM
}

func NewSynthesizeUseCase(llm port.LLM) *SynthesizeUseCase {
	return &SynthesizeUseCase{llm: llm}
}

// Synthesize builds a numbered context block from the candidates and asks
// the model to answer the query from it.
func (u *SynthesizeUseCase) Synthesize(query string, candidates []domain.Candidate) (domain.Answer, error) {
	if len(candidates) == 0 {
		return domain.Answer{
			Answer:  "I don't have enough information to answer this question.",
			Sources: nil,
		}, nil
	}

	if u.llm == nil {
		return u.fallback(candidates), nil
	}

	prompt := fmt.Sprintf("Context:\n%s\nQuestion: %s\n\nAnswer the question based on the context above.",
		BuildContext(candidates), query)

	text, err := u.llm.GenerateWithSystem(synthesisSystemPrompt, prompt)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("answer synthesis failed: %w", err)
	}

	return domain.Answer{
		Answer:  text,
		Model:   u.llm.ModelName(),
		Sources: candidates,
	}, nil
}

// fallback concatenates the top sources when no model is available.
func (u *SynthesizeUseCase) fallback(candidates []domain.Candidate) domain.Answer {
	var b strings.Builder
	b.WriteString("No language model configured. Most relevant passages:\n\n")
	b.WriteString(BuildContext(candidates))
	return domain.Answer{
		Answer:  b.String(),
		Sources: candidates,
	}
}

// BuildContext renders candidates as a numbered context block.
func BuildContext(candidates []domain.Candidate) string {
	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, c.Content)
	}
	return b.String()
}
