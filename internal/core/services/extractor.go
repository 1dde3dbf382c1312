package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driving"
	"github.com/ishika2236/ConstructionChatbot/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// Candidate gathering bounds.
const (
	// candidateK is retrieved per schema query; wider than answering
	// because schedule rows scatter across pages.
	candidateK = 10

	// minTableChunks is the table-tagged count below which narrative
	// chunks are kept as well. Table detection is heuristic and must
	// never be the only path to candidates.
	minTableChunks = 3

	// maxCandidates caps the chunks handed to an extractor.
	maxCandidates = 15

	// maxExtractionSources caps the citations attached to a result.
	maxExtractionSources = 10
)

// ExtractionService turns "generate the door schedule" style requests
// into validated tabular records. Candidate chunks come from the vector
// index via the schema's retrieval probes; extraction strategies run in
// order until one yields records.
type ExtractionService struct {
	retriever  *Retriever
	extractors []driven.RecordExtractor
	schemas    []domain.Schema
}

// NewExtractionService creates the extraction service. Extractors are
// tried in the order given.
func NewExtractionService(retriever *Retriever, extractors []driven.RecordExtractor) *ExtractionService {
	return &ExtractionService{
		retriever:  retriever,
		extractors: extractors,
		schemas:    domain.BuiltinSchemas(),
	}
}

// Detect reports whether the question asks for a known extraction shape.
func (s *ExtractionService) Detect(question string) (*domain.Schema, bool) {
	lower := strings.ToLower(question)
	for i := range s.schemas {
		for _, kw := range s.schemas[i].Keywords {
			if strings.Contains(lower, kw) {
				return &s.schemas[i], true
			}
		}
	}
	return nil, false
}

// Extract runs the extraction flow for a registered schema name.
func (s *ExtractionService) Extract(ctx context.Context, schemaName string) (*domain.ExtractionResult, error) {
	schema, ok := s.schemaByName(schemaName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown schema %q", domain.ErrNotFound, schemaName)
	}

	candidates, err := s.gatherCandidates(ctx, schema)
	if err != nil {
		return nil, err
	}

	result := &domain.ExtractionResult{
		Schema:  schema.Name,
		Sources: extractionSources(candidates),
	}
	if len(candidates) == 0 {
		return result, nil
	}

	for _, ex := range s.extractors {
		records, err := ex.Extract(ctx, schema, candidates)
		if err != nil {
			logger.Warn("extractor %s failed: %v", ex.Name(), err)
			continue
		}
		if len(records) == 0 {
			logger.Debug("extractor %s produced no records", ex.Name())
			continue
		}
		logger.Info("extractor %s produced %d records", ex.Name(), len(records))
		result.Records = records
		return result, nil
	}

	// Every strategy failed. An empty result with sources lets the user
	// inspect what was retrieved instead of getting an opaque error.
	return result, nil
}

// schemaByName looks up a registered schema.
func (s *ExtractionService) schemaByName(name string) (domain.Schema, bool) {
	for _, schema := range s.schemas {
		if schema.Name == name {
			return schema, true
		}
	}
	return domain.Schema{}, false
}

// gatherCandidates retrieves chunks for each of the schema's probe
// queries, deduplicates them, and prefers table-tagged chunks when
// enough exist.
func (s *ExtractionService) gatherCandidates(ctx context.Context, schema domain.Schema) ([]domain.RetrievedChunk, error) {
	var all []domain.RetrievedChunk
	seen := make(map[string]bool)

	for _, query := range schema.Queries {
		chunks, err := s.retriever.Retrieve(ctx, query, candidateK)
		if err != nil {
			return nil, fmt.Errorf("candidate retrieval %q: %w", query, err)
		}
		for _, c := range chunks {
			if seen[c.Chunk.ID] {
				continue
			}
			seen[c.Chunk.ID] = true
			all = append(all, c)
		}
	}

	var tables, narrative []domain.RetrievedChunk
	for _, c := range all {
		if c.Chunk.ContentType == domain.ContentTable {
			tables = append(tables, c)
		} else {
			narrative = append(narrative, c)
		}
	}

	// Table chunks first; fall back to everything when the heuristic
	// found too few to be trusted alone.
	var candidates []domain.RetrievedChunk
	if len(tables) >= minTableChunks {
		candidates = append(candidates, tables...)
		candidates = append(candidates, narrative...)
	} else {
		candidates = all
	}

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates, nil
}

// extractionSources converts candidates to citations, capped.
func extractionSources(candidates []domain.RetrievedChunk) []domain.Source {
	n := len(candidates)
	if n > maxExtractionSources {
		n = maxExtractionSources
	}
	return sourcesFrom(candidates[:n])
}
