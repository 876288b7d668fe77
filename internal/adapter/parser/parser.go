package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"krag/internal/domain"
)

// TextParser extracts content from plain-text document formats. Binary
// formats (PDF, DOCX) are the job of an external extraction engine feeding
// the same port.
type TextParser struct{}

func NewTextParser() *TextParser {
	return &TextParser{}
}

var supportedExtensions = map[string]struct{}{
	".txt":      {},
	".md":       {},
	".markdown": {},
}

// Parse reads a document and returns its content with file metadata.
func (p *TextParser) Parse(path string) (domain.ParsedDocument, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedExtensions[ext]; !ok {
		return domain.ParsedDocument{}, fmt.Errorf("unsupported file format: %s", ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.ParsedDocument{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ParsedDocument{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	return domain.ParsedDocument{
		Content: string(data),
		Metadata: map[string]string{
			"filename":  filepath.Base(path),
			"file_path": absPath,
			"file_type": strings.TrimPrefix(ext, "."),
			"file_size": strconv.FormatInt(info.Size(), 10),
		},
	}, nil
}
