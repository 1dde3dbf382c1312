package driving

import (
	"context"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
)

// IngestionService populates the vector index from a directory of
// source documents.
type IngestionService interface {
	// Ingest processes every supported file in dir. Idempotent per
	// document: prior records for the same document ID are deleted
	// before new ones are upserted, so re-ingestion never duplicates.
	// Per-document failures are recorded in the report, not returned.
	Ingest(ctx context.Context, dir string) (*domain.IngestionReport, error)

	// IngestFile processes a single document.
	IngestFile(ctx context.Context, path string) (*domain.IngestionReport, error)
}
