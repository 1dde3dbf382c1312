// Package plaintext provides a document reader for plain text files.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.DocumentReader = (*Reader)(nil)

// Reader handles plain text and markdown files. Specifications and
// addenda often arrive as text exports alongside the drawing set.
type Reader struct{}

// New creates a plain text reader.
func New() *Reader {
	return &Reader{}
}

// Supports reports whether this reader handles the given path.
func (r *Reader) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	}
	return false
}

// Read loads the file as a single-page document. Text files have no
// native pagination, so citations reference page 1.
func (r *Reader) Read(_ context.Context, path string) (*domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrDocumentProcessing, filepath.Base(path), err)
	}

	fileName := filepath.Base(path)
	return &domain.Document{
		ID:       domain.NewDocumentID(fileName),
		FileName: fileName,
		Path:     path,
		Pages: []domain.PageText{
			{Number: 1, Text: string(content)},
		},
		Status: domain.StatusProcessing,
	}, nil
}
