// Package chunker provides a boundary-aware text chunking processor.
package chunker

import (
	"context"
	"regexp"
	"strings"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultChunkOverlap = 200

// Processor splits per-page document text into overlapping chunks and
// tags each chunk as narrative or table-like.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document's pages into chunks.
// Input chunks are ignored; this processor creates new chunks from page text.
//
// Invariants: no chunk exceeds the configured size; consecutive chunks on
// a page share exactly the configured overlap (the final chunk may share
// less); concatenating each chunk's non-overlap span reconstructs the page.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	var chunks []domain.Chunk
	for _, page := range doc.Pages {
		chunks = append(chunks, p.chunkPage(doc.ID, page)...)
	}
	return chunks, nil
}

// chunkPage splits one page into overlapping chunks.
func (p *Processor) chunkPage(documentID string, page domain.PageText) []domain.Chunk {
	text := page.Text
	if text == "" {
		return nil
	}

	estimated := (len(text) / (p.chunkSize - p.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	index := 0

	for start < len(text) {
		end := start + p.chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = p.cutPoint(text, start, end)
		}

		content := text[start:end]
		chunks = append(chunks, domain.Chunk{
			ID:          domain.NewChunkID(documentID, page.Number, index, content),
			DocumentID:  documentID,
			Content:     content,
			Page:        page.Number,
			Index:       index,
			StartOffset: start,
			EndOffset:   end,
			ContentType: DetectContentType(content),
		})
		index++

		if end == len(text) {
			break
		}

		// Next chunk re-reads the trailing overlap so boundaries are
		// never lost between chunks.
		start = end - p.overlap
	}

	return chunks
}

// cutPoint finds a split position at or before the hard limit, preferring
// paragraph, then line, then sentence, then word boundaries. Falls back to
// the hard character cut when no boundary leaves room for forward progress.
func (p *Processor) cutPoint(text string, start, hardEnd int) int {
	// A cut must land beyond the overlap region or the next chunk would
	// not advance.
	minEnd := start + p.overlap + 1
	window := text[start:hardEnd]

	for _, sep := range []string{"\n\n", "\n", ". ", " "} {
		if idx := strings.LastIndex(window, sep); idx >= 0 {
			end := start + idx + len(sep)
			if end >= minEnd {
				return end
			}
		}
	}

	return hardEnd
}

// Structural signals for table-like text, per construction drawing
// conventions: schedule column headers, dimension pairs, mark codes,
// and delimiter-separated rows.
var tablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:MARK|DOOR|TYPE|SIZE|RATING|MATERIAL)\b.*\n`),
	regexp.MustCompile(`\d+\s*[xX]\s*\d+`),
	regexp.MustCompile(`\b[A-Z]-?\d+\b`),
	regexp.MustCompile(`\|\s*\w+\s*\|`),
	regexp.MustCompile("\t\\w+\t"),
}

// DetectContentType tags text as table-like or narrative. This is a
// best-effort retrieval hint, not a guarantee; extraction always keeps a
// broader-retrieval fallback.
func DetectContentType(text string) domain.ContentType {
	for _, pattern := range tablePatterns {
		if pattern.MatchString(text) {
			return domain.ContentTable
		}
	}
	return domain.ContentNarrative
}
