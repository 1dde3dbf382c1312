package driven

import "context"

// VectorIndex persists (vector, text, metadata) triples and supports
// nearest-neighbour search. It is the sole durable state of the system
// and must survive process restart.
type VectorIndex interface {
	// Upsert stores records, overwriting any existing record with the
	// same chunk ID. Records for one document are stored in slice order.
	Upsert(ctx context.Context, records []VectorRecord) error

	// Query returns the k nearest records by cosine similarity, ordered
	// by non-increasing score with ties broken by insertion order.
	// k is clamped to the available record count.
	Query(ctx context.Context, vector []float32, k int) ([]VectorHit, error)

	// DeleteDocument removes all records belonging to a document.
	// Required before re-ingesting an updated document.
	DeleteDocument(ctx context.Context, documentID string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Stats reports per-document chunk counts for status display.
	Stats(ctx context.Context) ([]DocumentStats, error)

	// Close releases resources.
	Close() error
}

// VectorRecord is one stored embedding plus the metadata duplicated for
// citation, so queries never need a join back to document storage.
type VectorRecord struct {
	// ChunkID is the content-addressed chunk identifier (primary key).
	ChunkID string

	// DocumentID groups records for delete-then-upsert replacement.
	DocumentID string

	// Vector is the embedding.
	Vector []float32

	// Content is the chunk text.
	Content string

	// FileName and Page are citation metadata.
	FileName string
	Page     int

	// Index is the chunk's ordinal position within its page.
	Index int

	// ContentType is the chunk's narrative/table tag.
	ContentType string
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the owning document.
	DocumentID string

	// Content is the chunk text.
	Content string

	// FileName and Page are citation metadata.
	FileName string
	Page     int

	// ContentType is the chunk's narrative/table tag.
	ContentType string

	// Similarity is the cosine similarity score.
	Similarity float64
}

// DocumentStats summarises one indexed document.
type DocumentStats struct {
	// DocumentID is the stable document identifier.
	DocumentID string

	// FileName is the source file name.
	FileName string

	// ChunkCount is the number of records stored for the document.
	ChunkCount int
}
