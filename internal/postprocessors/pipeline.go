// Package postprocessors turns an ingested document's pages into the
// chunks that get embedded and indexed.
package postprocessors

import (
	"context"
	"fmt"
	"strings"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
	"github.com/ishika2236/ConstructionChatbot/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs a document through its processing stages in order. The
// first stage creates chunks from the document's pages; later stages
// refine or re-tag them.
type Pipeline struct {
	stages []driven.PostProcessor
}

// NewPipeline creates a pipeline from the given stages.
func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Process produces index-ready chunks for a document. Whitespace-only
// chunks are dropped on the way out: blank drawing sheets keep their
// page numbers but contribute nothing worth embedding.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrDocumentProcessing)
	}

	var chunks []domain.Chunk
	for _, stage := range p.stages {
		var err error
		chunks, err = stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("stage %s on %s: %w", stage.Name(), doc.FileName, err)
		}
	}

	kept := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		kept = append(kept, c)
	}
	if dropped := len(chunks) - len(kept); dropped > 0 {
		logger.Debug("dropped %d blank chunks from %s", dropped, doc.FileName)
	}

	return kept, nil
}
