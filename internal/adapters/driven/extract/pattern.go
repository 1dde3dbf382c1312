package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
)

// Ensure PatternExtractor implements the interface.
var _ driven.RecordExtractor = (*PatternExtractor)(nil)

// maxPatternRecords caps regex extraction; marks past the first twenty
// in schedule text are overwhelmingly noise.
const maxPatternRecords = 20

// markContextWindow is how many characters after a mark are scanned for
// dimensions and ratings.
const markContextWindow = 200

var (
	// markPattern matches schedule identifiers like "D-101", "101", "1A".
	markPattern = regexp.MustCompile(`\b(?:[D]-?\d+[A-Z]?|\d{3}[A-Z]?)\b`)

	// dimensionPattern matches "36x84", "900 x 2100" and the like.
	dimensionPattern = regexp.MustCompile(`(\d+)\s*[xX×]\s*(\d+)`)

	// ratingPattern matches fire ratings like "1 HR", "90 MIN".
	ratingPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:HR|HOUR|MIN)`)
)

// PatternExtractor recovers partial records with regular expressions.
// It is the last line of defence when the completion service cannot
// produce valid JSON: marks are found first, then the text following
// each mark is scanned for dimensions and fire ratings.
type PatternExtractor struct{}

// NewPatternExtractor creates a pattern-based record extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Name identifies the strategy for logging.
func (e *PatternExtractor) Name() string {
	return "pattern"
}

// Extract produces records by regex scanning. Only fields the patterns
// can recover are populated; everything else is left null.
func (e *PatternExtractor) Extract(_ context.Context, schema domain.Schema, chunks []domain.RetrievedChunk) ([]domain.Record, error) {
	keyField := requiredStringField(schema)
	if keyField == "" {
		return nil, nil
	}

	var text strings.Builder
	for _, c := range chunks {
		text.WriteString(c.Chunk.Content)
		text.WriteString("\n\n")
	}
	full := text.String()

	marks := markPattern.FindAllStringIndex(full, -1)
	fieldSet := make(map[string]bool, len(schema.Fields))
	for _, f := range schema.Fields {
		fieldSet[f.Name] = true
	}

	var records []domain.Record
	seen := make(map[string]bool)
	for _, loc := range marks {
		if len(records) >= maxPatternRecords {
			break
		}
		mark := full[loc[0]:loc[1]]
		if seen[mark] {
			continue
		}
		seen[mark] = true

		end := loc[1] + markContextWindow
		if end > len(full) {
			end = len(full)
		}
		// Stop the context window at the line break so one row's
		// dimensions never bleed into the next mark's record.
		window := full[loc[0]:end]
		if nl := strings.IndexByte(window, '\n'); nl >= 0 {
			window = window[:nl]
		}

		record := domain.Record{}
		for _, f := range schema.Fields {
			record[f.Name] = nil
		}
		record[keyField] = mark

		if fieldSet["width_mm"] && fieldSet["height_mm"] {
			if m := dimensionPattern.FindStringSubmatch(window); m != nil {
				w, _ := strconv.Atoi(m[1])
				h, _ := strconv.Atoi(m[2])
				// Small values are inches; convert to millimetres.
				if w < 100 {
					w = int(float64(w) * 25.4)
					h = int(float64(h) * 25.4)
				}
				record["width_mm"] = w
				record["height_mm"] = h
			}
		}

		if fieldSet["fire_rating"] {
			if m := ratingPattern.FindString(window); m != "" {
				record["fire_rating"] = strings.ToUpper(m)
			}
		}

		records = append(records, record)
	}

	return records, nil
}

// requiredStringField returns the first required string field of the
// schema, which the mark pattern populates. Schemas without one cannot
// be pattern-extracted.
func requiredStringField(schema domain.Schema) string {
	for _, f := range schema.Fields {
		if f.Required && f.Type == domain.FieldString {
			return f.Name
		}
	}
	return ""
}
