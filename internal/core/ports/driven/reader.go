package driven

import (
	"context"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
)

// DocumentReader extracts per-page text from a source file.
// Each reader handles specific file extensions (e.g., PDF, plain text).
type DocumentReader interface {
	// Supports reports whether the reader handles the given path.
	Supports(path string) bool

	// Read extracts the document with per-page text populated.
	// Pages with no extractable text are omitted.
	Read(ctx context.Context, path string) (*domain.Document, error)
}

// CommandRunner executes an external command and returns its output.
// It exists so readers that shell out (e.g. pdftotext) can be test-doubled.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
