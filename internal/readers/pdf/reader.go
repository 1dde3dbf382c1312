// Package pdf provides a document reader for PDF files.
//
// Text extraction shells out to pdftotext (poppler-utils), which handles
// the layout-heavy drawings and schedule tables found in construction
// sets far better than pure-Go extractors. pdfcpu is used up front to
// validate the file and obtain the page count, so corrupt uploads fail
// fast with a clear error instead of producing garbage text.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.DocumentReader = (*Reader)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// pageSeparator is the form feed pdftotext emits between pages.
const pageSeparator = "\f"

// Reader extracts per-page text from PDF files.
type Reader struct {
	runner driven.CommandRunner
}

// execRunner runs commands via os/exec. It is the production
// CommandRunner; tests inject a mock instead.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// New creates a PDF reader using the system pdftotext binary.
func New() *Reader {
	return &Reader{runner: execRunner{}}
}

// NewWithRunner creates a PDF reader with a custom command runner.
func NewWithRunner(runner driven.CommandRunner) *Reader {
	return &Reader{runner: runner}
}

// CheckAvailable verifies pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform-specific install guidance.
func InstallInstructions() string {
	return `pdftotext is required for PDF ingestion. Install poppler:
  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}

// Supports reports whether this reader handles the given path.
func (r *Reader) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Read extracts the document's text page by page. The file is validated
// with pdfcpu first; relaxed mode tolerates the format deviations common
// in CAD-exported drawings.
func (r *Reader) Read(ctx context.Context, path string) (*domain.Document, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: invalid PDF %s: %v", domain.ErrDocumentProcessing, filepath.Base(path), err)
	}

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: page count for %s: %v", domain.ErrDocumentProcessing, filepath.Base(path), err)
	}

	// -layout preserves the column alignment of schedule tables, which
	// the table-detection heuristics downstream depend on.
	out, err := r.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext failed for %s: %v", domain.ErrDocumentProcessing, filepath.Base(path), err)
	}

	pages := splitPages(string(out), pageCount)

	fileName := filepath.Base(path)
	return &domain.Document{
		ID:       domain.NewDocumentID(fileName),
		FileName: fileName,
		Path:     path,
		Pages:    pages,
		Status:   domain.StatusProcessing,
	}, nil
}

// splitPages breaks pdftotext output on form feeds into 1-based pages.
// Trailing empty pages are kept only up to the real page count so blank
// drawing sheets still occupy their page numbers.
func splitPages(text string, pageCount int) []domain.PageText {
	parts := strings.Split(text, pageSeparator)
	if pageCount > 0 && len(parts) > pageCount {
		parts = parts[:pageCount]
	}

	pages := make([]domain.PageText, 0, len(parts))
	for i, part := range parts {
		pages = append(pages, domain.PageText{
			Number: i + 1,
			Text:   strings.TrimRight(part, "\n"),
		})
	}
	return pages
}
