package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driving"
	"github.com/ishika2236/ConstructionChatbot/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService routes questions: structured-extraction intent goes to the
// extraction service, everything else through retrieval-augmented
// answering. Every turn is appended to its conversation.
type ChatService struct {
	retriever     *Retriever
	extraction    driving.ExtractionService
	conversations *ConversationStore
}

// NewChatService creates the chat router.
func NewChatService(retriever *Retriever, extraction driving.ExtractionService, conversations *ConversationStore) *ChatService {
	return &ChatService{
		retriever:     retriever,
		extraction:    extraction,
		conversations: conversations,
	}
}

// Ask answers a question, creating a conversation when needed.
func (s *ChatService) Ask(ctx context.Context, question, conversationID string) (*driving.ChatResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	conv := s.conversations.GetOrCreate(conversationID)
	history := append([]domain.Turn(nil), conv.Turns...)
	s.conversations.Append(conv.ID, domain.RoleUser, question, nil)

	if schema, ok := s.extraction.Detect(question); ok {
		logger.Debug("extraction intent detected: %s", schema.Name)
		return s.askStructured(ctx, conv.ID, schema)
	}

	answer, err := s.retriever.Answer(ctx, question, history)
	if err != nil {
		return nil, err
	}

	s.conversations.Append(conv.ID, domain.RoleAssistant, answer.Text, answer.Sources)
	return &driving.ChatResponse{
		Message:        answer.Text,
		Sources:        answer.Sources,
		ConversationID: conv.ID,
	}, nil
}

// askStructured runs extraction and phrases the outcome as a chat turn.
func (s *ChatService) askStructured(ctx context.Context, conversationID string, schema *domain.Schema) (*driving.ChatResponse, error) {
	result, err := s.extraction.Extract(ctx, schema.Name)
	if err != nil {
		return nil, err
	}

	var message string
	if len(result.Records) > 0 {
		message = fmt.Sprintf("Extracted %d %s records from the ingested documents.", len(result.Records), schema.Name)
	} else {
		message = fmt.Sprintf("I could not extract any %s records from the ingested documents. "+
			"The relevant pages may not have been ingested, or the schedule may not be machine-readable.", schema.Name)
	}

	s.conversations.Append(conversationID, domain.RoleAssistant, message, result.Sources)
	return &driving.ChatResponse{
		Message:        message,
		Sources:        result.Sources,
		ConversationID: conversationID,
		Structured:     result,
	}, nil
}
