package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
	"github.com/ishika2236/ConstructionChatbot/internal/logger"
)

// Retrieval defaults.
const (
	// DefaultTopK is how many chunks are retrieved per question.
	DefaultTopK = 5

	// DefaultSimilarityThreshold gates answer generation: when the best
	// hit scores below it, the service answers "insufficient" without
	// consulting the completion service.
	DefaultSimilarityThreshold = 0.25

	// DefaultContextBudget bounds the characters of chunk text placed in
	// the completion context. Lowest-ranked chunks are dropped first.
	DefaultContextBudget = 6000

	// answerMaxTokens bounds answer length.
	answerMaxTokens = 1000

	// answerTemperature keeps answers grounded rather than creative.
	answerTemperature = 0.1

	// historyLimit bounds how many prior turns are replayed to the
	// completion service on follow-up questions.
	historyLimit = 6
)

// insufficientAnswer is returned when retrieval cannot support an answer.
const insufficientAnswer = "I don't have enough relevant information in the ingested documents to answer this question. " +
	"Try rephrasing, or ingest the documents that cover this topic."

// noDocumentsAnswer is returned when the index is empty or nothing matches.
const noDocumentsAnswer = "I don't have any relevant documents to answer this question. " +
	"Please make sure documents have been ingested."

// qaPromptTemplate instructs the completion service to answer only from
// the provided context, with citations.
const qaPromptTemplate = `You are an AI assistant specialized in construction project documentation.
You help users understand specifications, drawings, schedules, and other construction documents.

Use the following pieces of context from construction documents to answer the question at the end.
If you don't know the answer based on the context provided, say so clearly - do not make up information.
Always cite which document and page your information comes from.

Context:
%s

Question: %s

Provide a clear, concise answer with citations to specific documents and pages:
Answer:`

// RetrieverConfig tunes retrieval-augmented answering.
type RetrieverConfig struct {
	// TopK is the number of chunks retrieved per question (default 5).
	TopK int

	// SimilarityThreshold is the minimum best-hit score required before
	// the completion service is consulted (default 0.25).
	SimilarityThreshold float64

	// ContextBudget is the character budget for chunk text in the
	// completion context (default 6000).
	ContextBudget int
}

// Retriever answers questions with retrieval-augmented generation:
// embed the question, fetch the nearest chunks, and ground a completion
// on them. Sources always reflect the chunks actually placed in the
// context, never the model's own claims.
type Retriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	llm      driven.LLMService
	cfg      RetrieverConfig
}

// NewRetriever creates the retrieval service.
func NewRetriever(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	llm driven.LLMService,
	cfg RetrieverConfig,
) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.ContextBudget <= 0 {
		cfg.ContextBudget = DefaultContextBudget
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		llm:      llm,
		cfg:      cfg,
	}
}

// Retrieve returns the nearest chunks for a query text.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		k = r.cfg.TopK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.index.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	chunks := make([]domain.RetrievedChunk, len(hits))
	for i, h := range hits {
		chunks[i] = domain.RetrievedChunk{
			Chunk: domain.Chunk{
				ID:          h.ChunkID,
				DocumentID:  h.DocumentID,
				Content:     h.Content,
				Page:        h.Page,
				ContentType: domain.ContentType(h.ContentType),
			},
			FileName: h.FileName,
			Score:    h.Similarity,
			Rank:     i,
		}
	}
	return chunks, nil
}

// Answer runs the full question-answering flow. Prior conversation
// turns, when supplied, are replayed to the completion service so
// follow-up questions keep their context.
func (r *Retriever) Answer(ctx context.Context, question string, history []domain.Turn) (*domain.Answer, error) {
	retrieved, err := r.Retrieve(ctx, question, r.cfg.TopK)
	if err != nil {
		return nil, err
	}

	if len(retrieved) == 0 {
		return &domain.Answer{Text: noDocumentsAnswer, Insufficient: true}, nil
	}

	// Confidence gate: a weak best hit means the corpus does not cover
	// the question. Answering anyway invites hallucination. Sources are
	// derived only from chunks placed in the completion context, and on
	// this path there are none.
	if retrieved[0].Score < r.cfg.SimilarityThreshold {
		logger.Debug("best hit %.3f below threshold %.3f, skipping completion",
			retrieved[0].Score, r.cfg.SimilarityThreshold)
		return &domain.Answer{
			Text:         insufficientAnswer,
			Insufficient: true,
		}, nil
	}

	included := r.fitBudget(retrieved)
	prompt := fmt.Sprintf(qaPromptTemplate, buildContext(included), question)

	text, err := r.complete(ctx, prompt, history)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:    strings.TrimSpace(text),
		Sources: sourcesFrom(included),
	}, nil
}

// complete sends the grounded prompt to the completion service. Without
// history a plain completion is used; with history the prior turns are
// replayed as chat messages, most recent historyLimit turns only.
func (r *Retriever) complete(ctx context.Context, prompt string, history []domain.Turn) (string, error) {
	if len(history) == 0 {
		return r.llm.Generate(ctx, prompt, driven.GenerateOptions{
			MaxTokens:   answerMaxTokens,
			Temperature: answerTemperature,
		})
	}

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	messages := make([]driven.ChatMessage, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, driven.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, driven.ChatMessage{Role: domain.RoleUser, Content: prompt})

	return r.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
}

// fitBudget keeps chunks in rank order until the character budget is
// exhausted. The top chunk is always included.
func (r *Retriever) fitBudget(retrieved []domain.RetrievedChunk) []domain.RetrievedChunk {
	var included []domain.RetrievedChunk
	used := 0
	for _, rc := range retrieved {
		size := len(rc.Chunk.Content)
		if len(included) > 0 && used+size > r.cfg.ContextBudget {
			break
		}
		included = append(included, rc)
		used += size
	}
	return included
}

// buildContext labels each chunk with its citation so the model can
// reference documents and pages in its answer.
func buildContext(chunks []domain.RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, rc := range chunks {
		parts[i] = fmt.Sprintf("[Document %d: %s, Page %d]\n%s",
			i+1, rc.FileName, rc.Chunk.Page, rc.Chunk.Content)
	}
	return strings.Join(parts, "\n\n")
}

// sourcesFrom converts retrieved chunks to citation sources.
func sourcesFrom(chunks []domain.RetrievedChunk) []domain.Source {
	sources := make([]domain.Source, len(chunks))
	for i, rc := range chunks {
		sources[i] = domain.Source{
			FileName: rc.FileName,
			Page:     rc.Chunk.Page,
			Snippet:  domain.MakeSnippet(rc.Chunk.Content),
			Score:    rc.Score,
		}
	}
	return sources
}
