package chunker

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"krag/internal/domain"
)

// Strategy selects the boundary policy used when splitting text.
type Strategy string

const (
	StrategyCharacter Strategy = "character"
	StrategySentence  Strategy = "sentence"
	StrategyParagraph Strategy = "paragraph"
)

// DocumentChunker splits raw text into bounded chunks with a configurable
// overlap between consecutive chunks. It holds no per-call state and is
// safe for concurrent use.
type DocumentChunker struct {
	chunkSize int
	overlap   int
	strategy  Strategy
}

// NewDocumentChunker creates a chunker. The overlap must leave forward
// progress: construction fails when overlap >= chunkSize.
func NewDocumentChunker(chunkSize, overlap int, strategy Strategy) (*DocumentChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be non-negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be less than chunk size (%d)", overlap, chunkSize)
	}
	return &DocumentChunker{
		chunkSize: chunkSize,
		overlap:   overlap,
		strategy:  strategy,
	}, nil
}

// Chunk splits text into ordered chunks, attaching an independent copy of
// metadata to each one. Empty or all-whitespace text yields no chunks.
func (c *DocumentChunker) Chunk(text string, metadata map[string]string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var pieces []string
	switch c.strategy {
	case StrategySentence:
		pieces = c.chunkBySentence(text)
	case StrategyParagraph:
		pieces = c.chunkByParagraph(text)
	case StrategyCharacter:
		pieces = c.chunkByCharacter(text)
	default:
		// Unknown strategies degrade to character chunking.
		pieces = c.chunkByCharacter(text)
	}

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, domain.Chunk{
			Content:  piece,
			Index:    i,
			Metadata: copyMetadata(metadata),
		})
	}
	return chunks
}

// chunkByCharacter advances a window of chunkSize characters over the
// text. When a sentence terminator or newline falls in the back half of
// the window the cut moves there instead of the hard limit. The next
// window starts overlap characters before the actual end of the previous
// one. All arithmetic is in runes so a cut can never split a multi-byte
// character.
func (c *DocumentChunker) chunkByCharacter(text string) []string {
	runes := []rune(text)
	var chunks []string
	start := 0
	n := len(runes)

	for start < n {
		end := start + c.chunkSize

		if end < n {
			if breakPoint := lastBreakPoint(runes[start:end]); breakPoint > c.chunkSize/2 {
				end = start + breakPoint + 1
			}
		}

		sliceEnd := end
		if sliceEnd > n {
			sliceEnd = n
		}
		if piece := strings.TrimSpace(string(runes[start:sliceEnd])); piece != "" {
			chunks = append(chunks, piece)
		}

		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// lastBreakPoint returns the index of the later of the last ". " pair or
// the last newline in the window, or -1 when neither occurs.
func lastBreakPoint(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '\n' {
			return i
		}
		if window[i] == '.' && i+1 < len(window) && window[i+1] == ' ' {
			return i
		}
	}
	return -1
}

// chunkBySentence accumulates whole sentences up to chunkSize. On overflow
// the accumulated text is emitted and the next chunk is seeded with the
// trailing sentences that fit the overlap budget.
func (c *DocumentChunker) chunkBySentence(text string) []string {
	sentences := splitSentences(text)

	var chunks []string
	var current []string
	currentSize := 0

	for _, sentence := range sentences {
		size := utf8.RuneCountInString(sentence)

		if currentSize+size > c.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))

			if utf8.RuneCountInString(strings.Join(current, " ")) > c.overlap {
				var seed []string
				seedSize := 0
				for i := len(current) - 1; i >= 0; i-- {
					if seedSize+utf8.RuneCountInString(current[i]) > c.overlap {
						break
					}
					seed = append([]string{current[i]}, seed...)
					seedSize += utf8.RuneCountInString(current[i])
				}
				current = seed
				currentSize = seedSize
			} else {
				current = nil
				currentSize = 0
			}
		}

		current = append(current, sentence)
		currentSize += size
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// chunkByParagraph accumulates blank-line-delimited paragraphs. A
// paragraph exceeding chunkSize on its own is split by character windows.
// On overflow only the single most recent paragraph carries over, and only
// when it fits the overlap budget.
func (c *DocumentChunker) chunkByParagraph(text string) []string {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current []string
	currentSize := 0

	for _, paragraph := range paragraphs {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		size := utf8.RuneCountInString(paragraph)

		if size > c.chunkSize {
			if len(current) > 0 {
				chunks = append(chunks, strings.Join(current, "\n\n"))
				current = nil
				currentSize = 0
			}
			chunks = append(chunks, c.chunkByCharacter(paragraph)...)
			continue
		}

		if currentSize+size > c.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))

			last := current[len(current)-1]
			if lastSize := utf8.RuneCountInString(last); lastSize <= c.overlap {
				current = []string{last}
				currentSize = lastSize
			} else {
				current = nil
				currentSize = 0
			}
		}

		current = append(current, paragraph)
		currentSize += size
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}

	return chunks
}

// splitSentences splits text after sentence-ending punctuation followed by
// whitespace. The terminator stays with its sentence; the separating
// whitespace is consumed.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			sentences = append(sentences, current.String())
			current.Reset()
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}

	return sentences
}

func copyMetadata(metadata map[string]string) map[string]string {
	copied := make(map[string]string, len(metadata))
	for k, v := range metadata {
		copied[k] = v
	}
	return copied
}
