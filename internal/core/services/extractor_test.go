package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishika2236/ConstructionChatbot/internal/adapters/driven/index/memory"
	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
)

func newExtractionService(t *testing.T, idx driven.VectorIndex, extractors ...driven.RecordExtractor) *ExtractionService {
	t.Helper()
	retriever := NewRetriever(&fakeEmbedder{}, idx, &fakeLLM{}, RetrieverConfig{})
	return NewExtractionService(retriever, extractors)
}

func tableRecord(chunkID string, vec []float32) driven.VectorRecord {
	r := vrec(chunkID, vec, "MARK  SIZE     RATING\nD-101 36x84   1 HR")
	r.ContentType = string(domain.ContentTable)
	return r
}

func TestExtractionService_Detect(t *testing.T) {
	svc := newExtractionService(t, memory.NewIndex())

	tests := []struct {
		question string
		schema   string
		detected bool
	}{
		{"Generate the door schedule please", "door_schedule", true},
		{"can you LIST DOORS on level 2", "door_schedule", true},
		{"show me a room summary", "room_summary", true},
		{"equipment list for the mechanical floor", "equipment_list", true},
		{"what is the fire rating of door D-101?", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			schema, ok := svc.Detect(tt.question)
			assert.Equal(t, tt.detected, ok)
			if tt.detected {
				require.NotNil(t, schema)
				assert.Equal(t, tt.schema, schema.Name)
			}
		})
	}
}

func TestExtractionService_Extract_UnknownSchema(t *testing.T) {
	svc := newExtractionService(t, memory.NewIndex())

	_, err := svc.Extract(context.Background(), "window_schedule")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtractionService_Extract_FirstStrategyWins(t *testing.T) {
	idx := memory.NewIndex()
	seedIndex(t, idx, tableRecord("a", []float32{1, 0, 0}))

	primary := &fakeRecordExtractor{name: "llm", records: []domain.Record{{"mark": "D-101"}}}
	fallback := &fakeRecordExtractor{name: "pattern", records: []domain.Record{{"mark": "never"}}}
	svc := newExtractionService(t, idx, primary, fallback)

	result, err := svc.Extract(context.Background(), "door_schedule")
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "D-101", result.Records[0]["mark"])
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, fallback.calls, "fallback must not run when the primary succeeds")
	assert.NotEmpty(t, result.Sources)
}

func TestExtractionService_Extract_FallsBackOnError(t *testing.T) {
	idx := memory.NewIndex()
	seedIndex(t, idx, tableRecord("a", []float32{1, 0, 0}))

	primary := &fakeRecordExtractor{name: "llm", err: fmt.Errorf("model returned prose")}
	fallback := &fakeRecordExtractor{name: "pattern", records: []domain.Record{{"mark": "D-101"}}}
	svc := newExtractionService(t, idx, primary, fallback)

	result, err := svc.Extract(context.Background(), "door_schedule")
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestExtractionService_Extract_AllStrategiesFail(t *testing.T) {
	idx := memory.NewIndex()
	seedIndex(t, idx, tableRecord("a", []float32{1, 0, 0}))

	primary := &fakeRecordExtractor{name: "llm", err: fmt.Errorf("down")}
	fallback := &fakeRecordExtractor{name: "pattern"}
	svc := newExtractionService(t, idx, primary, fallback)

	result, err := svc.Extract(context.Background(), "door_schedule")
	require.NoError(t, err, "strategy exhaustion is not an error")

	assert.Empty(t, result.Records)
	assert.NotEmpty(t, result.Sources, "sources let the user inspect what was retrieved")
	assert.Equal(t, "door_schedule", result.Schema)
}

func TestExtractionService_Extract_EmptyIndex(t *testing.T) {
	primary := &fakeRecordExtractor{name: "llm", records: []domain.Record{{"mark": "D-1"}}}
	svc := newExtractionService(t, memory.NewIndex(), primary)

	result, err := svc.Extract(context.Background(), "door_schedule")
	require.NoError(t, err)

	assert.Empty(t, result.Records)
	assert.Zero(t, primary.calls, "no candidates means no extraction attempt")
}

func TestGatherCandidates_DeduplicatesAcrossQueries(t *testing.T) {
	idx := memory.NewIndex()
	// One chunk matches every probe query of the schema.
	seedIndex(t, idx, tableRecord("a", []float32{1, 0, 0}))

	captured := &capturingExtractor{}
	svc := newExtractionService(t, idx, captured)

	_, err := svc.Extract(context.Background(), "door_schedule")
	require.NoError(t, err)
	assert.Len(t, captured.chunks, 1, "same chunk retrieved by multiple probes appears once")
}

// capturingExtractor records the candidates it was handed.
type capturingExtractor struct {
	chunks []domain.RetrievedChunk
}

func (c *capturingExtractor) Name() string { return "capturing" }

func (c *capturingExtractor) Extract(_ context.Context, _ domain.Schema, chunks []domain.RetrievedChunk) ([]domain.Record, error) {
	c.chunks = chunks
	return []domain.Record{{"mark": "D-1"}}, nil
}
