// Package extract provides record extraction strategies for structured
// schedule generation. The LLM-guided extractor is the primary strategy;
// the pattern extractor is the fallback when the model output cannot be
// parsed or validated.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
	"github.com/ishika2236/ConstructionChatbot/internal/logger"
)

// Ensure LLMExtractor implements the interface.
var _ driven.RecordExtractor = (*LLMExtractor)(nil)

// Extraction request bounds.
const (
	extractMaxTokens   = 2000
	extractTemperature = 0.1
)

// Model output parsing. Models often wrap JSON in markdown fences even
// when told not to.
var (
	fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")
	bareJSONPattern   = regexp.MustCompile(`(?s)\[.*\]`)
)

// LLMExtractor asks a completion service to emit schema-conformant JSON
// records from candidate chunks. Output that fails to parse or validate
// gets exactly one repair attempt, with the error fed back verbatim.
type LLMExtractor struct {
	llm driven.LLMService
}

// NewLLMExtractor creates an LLM-guided record extractor.
func NewLLMExtractor(llm driven.LLMService) *LLMExtractor {
	return &LLMExtractor{llm: llm}
}

// Name identifies the strategy for logging.
func (e *LLMExtractor) Name() string {
	return "llm"
}

// Extract produces records matching the schema from the chunk texts.
func (e *LLMExtractor) Extract(ctx context.Context, schema domain.Schema, chunks []domain.RetrievedChunk) ([]domain.Record, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	prompt := buildExtractionPrompt(schema, chunks)

	raw, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   extractMaxTokens,
		Temperature: extractTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction completion: %w", err)
	}

	records, parseErr := parseAndValidate(schema, raw)
	if parseErr == nil {
		return records, nil
	}

	// One repair attempt: feed the exact failure back to the model.
	logger.Warn("extraction output invalid, retrying once: %v", parseErr)
	repairPrompt := fmt.Sprintf(
		"%s\n\nYour previous response was invalid: %v\nPrevious response:\n%s\n\nReturn ONLY a corrected valid JSON array:",
		prompt, parseErr, raw,
	)
	raw, err = e.llm.Generate(ctx, repairPrompt, driven.GenerateOptions{
		MaxTokens:   extractMaxTokens,
		Temperature: extractTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction repair completion: %w", err)
	}

	records, parseErr = parseAndValidate(schema, raw)
	if parseErr != nil {
		return nil, fmt.Errorf("extraction output invalid after repair: %w", parseErr)
	}
	return records, nil
}

// buildExtractionPrompt assembles the extraction instruction with the
// schema's field list and the labelled chunk context.
func buildExtractionPrompt(schema domain.Schema, chunks []domain.RetrievedChunk) string {
	var fields strings.Builder
	for _, f := range schema.Fields {
		fields.WriteString(fmt.Sprintf("- %s: %s", f.Name, f.Type))
		if f.Required {
			fields.WriteString(" (required)")
		}
		fields.WriteString("\n")
	}

	return fmt.Sprintf(`You are an expert at extracting structured data from construction documents.

Extract all %s from the following construction documents into a JSON array.
Each record should be an object with these fields (use null if not found):
%s
Documents:
%s

Important:
- Extract ALL matching records mentioned in the documents
- Be precise with measurements and convert units as needed
- If dimensions are in inches, convert to mm (1 inch = 25.4 mm)
- Only include records that are explicitly mentioned
- Return ONLY a valid JSON array, no other text

JSON Array:`, schema.Description, fields.String(), CombineChunks(chunks))
}

// CombineChunks joins chunk texts with citation labels so the model can
// attribute what it reads.
func CombineChunks(chunks []domain.RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[%s, Page %d]\n%s", c.FileName, c.Chunk.Page, c.Chunk.Content)
	}
	return strings.Join(parts, "\n\n")
}

// parseAndValidate extracts the JSON array from model output and
// type-checks every record against the schema. All-or-nothing: a single
// invalid record fails the batch so the repair prompt can fix it.
func parseAndValidate(schema domain.Schema, raw string) ([]domain.Record, error) {
	jsonStr := extractJSONArray(raw)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON array found in output")
	}

	var records []domain.Record
	if err := json.Unmarshal([]byte(jsonStr), &records); err != nil {
		return nil, fmt.Errorf("parse JSON array: %w", err)
	}

	for i, r := range records {
		if err := schema.ValidateRecord(r); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return records, nil
}

// extractJSONArray pulls a JSON array out of model output, handling
// markdown code fences and surrounding prose.
func extractJSONArray(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := fencedJSONPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if m := bareJSONPattern.FindString(raw); m != "" {
		return m
	}
	return ""
}
