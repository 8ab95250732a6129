package services

import (
	"context"

	"knowledge-chatbot-backend/internal/logger"
	"knowledge-chatbot-backend/models"
)

// ChatService wraps the RAG orchestrator with a persisted per-user
// transcript. The user turn is recorded before answering and the assistant
// turn after, so a generation failure still leaves the question in history.
type ChatService struct {
	rag      *RagService
	messages ConversationStore
}

func NewChatService(rag *RagService, messages ConversationStore) *ChatService {
	return &ChatService{rag: rag, messages: messages}
}

// Send records the user message, produces an answer and records it. If
// persisting the assistant turn fails the answer is still returned; the
// transcript is best effort, the answer is not.
func (s *ChatService) Send(ctx context.Context, ownerID, message string) (*Answer, error) {
	if err := s.messages.Append(ctx, ownerID, models.RoleUser, message); err != nil {
		return nil, err
	}

	answer, err := s.rag.Answer(ctx, message)
	if err != nil {
		return nil, err
	}

	if err := s.messages.Append(ctx, ownerID, models.RoleAssistant, answer.Text); err != nil {
		logger.Error("Failed to persist assistant message", "owner_id", ownerID, "error", err)
	}
	return answer, nil
}

// History returns the user's transcript, oldest first.
func (s *ChatService) History(ctx context.Context, ownerID string) ([]models.ChatMessage, error) {
	return s.messages.List(ctx, ownerID)
}

// ClearHistory deletes the user's transcript.
func (s *ChatService) ClearHistory(ctx context.Context, ownerID string) error {
	return s.messages.Clear(ctx, ownerID)
}
