package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/postprocessors/chunker"
)

// stubProcessor counts invocations and can fail on demand.
type stubProcessor struct {
	name   string
	called int
	err    error
}

func (s *stubProcessor) Name() string { return s.name }

func (s *stubProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	s.called++
	if s.err != nil {
		return nil, s.err
	}
	return append(chunks, domain.Chunk{ID: s.name, Content: s.name}), nil
}

func TestPipeline_Process_RunsInOrder(t *testing.T) {
	first := &stubProcessor{name: "first"}
	second := &stubProcessor{name: "second"}
	p := NewPipeline(first, second)

	chunks, err := p.Process(context.Background(), &domain.Document{ID: "doc"})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].ID)
	assert.Equal(t, "second", chunks[1].ID)
}

func TestPipeline_Process_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	failing := &stubProcessor{name: "failing", err: boom}
	after := &stubProcessor{name: "after"}
	p := NewPipeline(failing, after)

	_, err := p.Process(context.Background(), &domain.Document{ID: "doc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, after.called)
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	p := NewPipeline()
	_, err := p.Process(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrDocumentProcessing)
}

// blankProcessor emits one useful chunk and two whitespace-only ones,
// as a chunker does for blank drawing sheets.
type blankProcessor struct{}

func (blankProcessor) Name() string { return "blank" }

func (blankProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	return append(chunks,
		domain.Chunk{ID: "empty", Content: ""},
		domain.Chunk{ID: "real", Content: "Corridor partitions are rated 90 minutes."},
		domain.Chunk{ID: "blank", Content: " \n\t"},
	), nil
}

func TestPipeline_Process_DropsBlankChunks(t *testing.T) {
	p := NewPipeline(blankProcessor{})

	chunks, err := p.Process(context.Background(), &domain.Document{ID: "doc", FileName: "plans.pdf"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "real", chunks[0].ID)
}

func TestPipeline_WithChunker(t *testing.T) {
	p := NewPipeline(chunker.New(chunker.WithChunkSize(50), chunker.WithOverlap(10)))

	doc := &domain.Document{
		ID:    "doc",
		Pages: []domain.PageText{{Number: 1, Text: "Fire rated partitions separate the corridor from adjacent rooms on this level."}},
	}
	chunks, err := p.Process(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Content), 50)
	}
}
