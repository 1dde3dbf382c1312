package services

import (
	"context"
	"fmt"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
)

// fakeEmbedder returns canned vectors by exact text, or a default unit
// vector for anything unknown. Deterministic, like the real services.
type fakeEmbedder struct {
	vectors map[string][]float32
	failAll bool
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failAll {
		return nil, fmt.Errorf("%w: embedder down", domain.ErrServiceUnavailable)
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int            { return 3 }
func (f *fakeEmbedder) ModelName() string          { return "fake-embedder" }
func (f *fakeEmbedder) Ping(context.Context) error { return nil }
func (f *fakeEmbedder) Close() error               { return nil }

// fakeLLM replays canned responses and records prompts and chat
// message batches.
type fakeLLM struct {
	response string
	err      error
	prompts  []string
	chats    [][]driven.ChatMessage
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Chat(_ context.Context, msgs []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	f.chats = append(f.chats, msgs)
	if len(msgs) > 0 {
		f.prompts = append(f.prompts, msgs[len(msgs)-1].Content)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) ModelName() string          { return "fake-llm" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }

// fakeRecordExtractor returns fixed records or an error.
type fakeRecordExtractor struct {
	name    string
	records []domain.Record
	err     error
	calls   int
}

func (f *fakeRecordExtractor) Name() string { return f.name }

func (f *fakeRecordExtractor) Extract(_ context.Context, _ domain.Schema, _ []domain.RetrievedChunk) ([]domain.Record, error) {
	f.calls++
	return f.records, f.err
}
