package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// IngestionStatus tracks a document through the ingestion pipeline.
type IngestionStatus string

// Ingestion states.
const (
	StatusPending    IngestionStatus = "pending"
	StatusProcessing IngestionStatus = "processing"
	StatusIndexed    IngestionStatus = "indexed"
	StatusFailed     IngestionStatus = "failed"
)

// ContentType classifies a chunk's text for retrieval hints.
// Table-like chunks are preferred candidates for structured extraction.
// The tagging is heuristic and must never be the only retrieval path.
type ContentType string

// Chunk content types.
const (
	ContentNarrative ContentType = "narrative"
	ContentTable     ContentType = "table"
)

// PageText is the extracted text of a single document page.
type PageText struct {
	// Number is the 1-based page number within the source file.
	Number int

	// Text is the raw extracted text of the page.
	Text string
}

// Document represents a source file submitted for ingestion.
type Document struct {
	// ID is derived from the file name, stable across re-ingestion
	// so an updated file replaces its prior records.
	ID string

	// FileName is the base name of the source file, used for citations.
	FileName string

	// Path is the location the document was read from.
	Path string

	// Pages holds per-page extracted text in page order.
	Pages []PageText

	// Status is the current ingestion state.
	Status IngestionStatus

	// ChunkCount is the number of chunks produced on the last ingestion.
	ChunkCount int

	// IndexedAt is when the document was last successfully indexed.
	IndexedAt time.Time
}

// Chunk is the atomic retrieval unit: a bounded span of document text
// plus the citation metadata needed to trace it back to its page.
type Chunk struct {
	// ID is content-addressed; identical text at the same position
	// yields the same ID across runs.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Content is the chunk text.
	Content string

	// Page is the 1-based source page number.
	Page int

	// Index is the ordinal position of the chunk within its page.
	Index int

	// StartOffset and EndOffset are character offsets into the page text.
	StartOffset int
	EndOffset   int

	// ContentType tags the chunk as narrative or table-like.
	ContentType ContentType

	// Embedding is the vector representation, populated during ingestion.
	Embedding []float32
}

// NewDocumentID derives a stable document identifier from the file name.
func NewDocumentID(fileName string) string {
	sum := sha256.Sum256([]byte(fileName))
	return hex.EncodeToString(sum[:])[:16]
}

// NewChunkID derives a content-addressed chunk identifier. Re-ingesting
// identical content produces identical IDs, so upserts overwrite rather
// than duplicate.
func NewChunkID(documentID string, page, index int, content string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%d:%d:%s", documentID, page, index, content))
	return hex.EncodeToString(sum[:])[:32]
}
