package extract

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
)

// fakeLLM replays canned responses and records the prompts it saw.
type fakeLLM struct {
	responses []string
	prompts   []string
	err       error
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.prompts) > len(f.responses) {
		return "", fmt.Errorf("fake: no response for call %d", len(f.prompts))
	}
	return f.responses[len(f.prompts)-1], nil
}

func (f *fakeLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return "", fmt.Errorf("fake: chat not expected")
}

func (f *fakeLLM) ModelName() string          { return "fake-model" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }

func doorSchema(t *testing.T) domain.Schema {
	t.Helper()
	for _, s := range domain.BuiltinSchemas() {
		if s.Name == "door_schedule" {
			return s
		}
	}
	t.Fatal("door_schedule schema not registered")
	return domain.Schema{}
}

func doorChunks() []domain.RetrievedChunk {
	return []domain.RetrievedChunk{
		{
			Chunk:    domain.Chunk{Content: "DOOR SCHEDULE\nD-101 Office 36x84 1 HR Hollow Metal", Page: 4},
			FileName: "plans.pdf",
			Score:    0.9,
		},
	}
}

func TestLLMExtractor_ValidOutput(t *testing.T) {
	llm := &fakeLLM{responses: []string{
		`[{"mark": "D-101", "location": "Office", "width_mm": 914, "height_mm": 2134, "fire_rating": "1 HR", "material": "Hollow Metal"}]`,
	}}
	ex := NewLLMExtractor(llm)

	records, err := ex.Extract(context.Background(), doorSchema(t), doorChunks())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "D-101", records[0]["mark"])
	assert.Equal(t, float64(914), records[0]["width_mm"])

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "plans.pdf, Page 4")
	assert.Contains(t, llm.prompts[0], "- mark: string (required)")
}

func TestLLMExtractor_FencedOutput(t *testing.T) {
	llm := &fakeLLM{responses: []string{
		"Here is the schedule:\n```json\n[{\"mark\": \"D-101\"}]\n```",
	}}
	ex := NewLLMExtractor(llm)

	records, err := ex.Extract(context.Background(), doorSchema(t), doorChunks())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "D-101", records[0]["mark"])
}

func TestLLMExtractor_RepairsInvalidOutput(t *testing.T) {
	llm := &fakeLLM{responses: []string{
		`[{"location": "Office"}]`, // missing required mark
		`[{"mark": "D-101", "location": "Office"}]`,
	}}
	ex := NewLLMExtractor(llm)

	records, err := ex.Extract(context.Background(), doorSchema(t), doorChunks())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "D-101", records[0]["mark"])

	// Exactly one repair, carrying the validation failure back.
	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[1], "previous response was invalid")
	assert.Contains(t, llm.prompts[1], `"mark" missing`)
}

func TestLLMExtractor_FailsAfterOneRepair(t *testing.T) {
	llm := &fakeLLM{responses: []string{"not json at all", "still not json"}}
	ex := NewLLMExtractor(llm)

	_, err := ex.Extract(context.Background(), doorSchema(t), doorChunks())
	require.Error(t, err)
	assert.Len(t, llm.prompts, 2, "must stop after a single repair attempt")
}

func TestLLMExtractor_NoChunks(t *testing.T) {
	llm := &fakeLLM{}
	ex := NewLLMExtractor(llm)

	records, err := ex.Extract(context.Background(), doorSchema(t), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, llm.prompts, "no chunks means no completion call")
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare array", `[{"a": 1}]`, `[{"a": 1}]`},
		{"fenced", "```json\n[1, 2]\n```", "[1, 2]"},
		{"fenced without language", "```\n[1]\n```", "[1]"},
		{"prose around array", "Sure:\n[1, 2]\nDone.", "[1, 2]"},
		{"no array", "there are no doors", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONArray(tt.raw))
		})
	}
}
