package driving

import (
	"context"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
)

// ChatService answers natural-language questions over the indexed corpus.
// Questions with structured-extraction intent are routed to the extractor;
// everything else goes through retrieval-augmented answering.
type ChatService interface {
	// Ask answers a question. conversationID may be empty; a new
	// conversation is created and its ID returned in the response.
	Ask(ctx context.Context, question, conversationID string) (*ChatResponse, error)
}

// ChatResponse is the result of one chat turn.
type ChatResponse struct {
	// Message is the answer text.
	Message string

	// Sources lists the citations backing the answer.
	Sources []domain.Source

	// ConversationID identifies the conversation the turn was appended to.
	ConversationID string

	// Structured holds extraction results when the question was a
	// structured request; nil otherwise.
	Structured *domain.ExtractionResult
}
