package driven

import (
	"context"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
)

// RecordExtractor produces schema-conformant records from candidate chunks.
//
// Two implementations exist and are tried in sequence by the extraction
// service: an LLM-guided extractor (with one validation repair retry) and
// a pattern-based extractor used as the fallback. Modelling the tiers as
// one interface keeps the fallback logic out of the service's branching.
type RecordExtractor interface {
	// Name identifies the strategy for logging.
	Name() string

	// Extract produces records matching the schema from the chunk texts.
	Extract(ctx context.Context, schema domain.Schema, chunks []domain.RetrievedChunk) ([]domain.Record, error)
}
