package driving

import (
	"context"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
)

// ExtractionService produces structured tabular records from the corpus.
type ExtractionService interface {
	// Detect reports whether the question asks for a known extraction
	// shape, and which one.
	Detect(question string) (*domain.Schema, bool)

	// Extract runs the extraction state machine for a registered schema
	// name: candidate retrieval, LLM-guided extraction with one repair
	// retry, then pattern-based fallback.
	Extract(ctx context.Context, schemaName string) (*domain.ExtractionResult, error)
}
