// Package service provides business logic for the tutoring platform.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visualtutor-ai/tutor-platform/internal/model"
	"github.com/visualtutor-ai/tutor-platform/internal/store"
	"github.com/visualtutor-ai/tutor-platform/pkg/logger"
	"github.com/visualtutor-ai/tutor-platform/pkg/metrics"
)

// ConversationService handles conversation operations.
type ConversationService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(st *store.Store, log *logger.Logger) *ConversationService {
	return &ConversationService{
		store:  st,
		logger: log,
	}
}

// Create creates a new conversation for the user.
func (s *ConversationService) Create(ctx context.Context, userID, title string) (*model.Conversation, error) {
	if title == "" {
		title = "New Chat"
	}

	now := time.Now()
	conv := &model.Conversation{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}

	metrics.ConversationsTotal.Inc()
	s.logger.Info("conversation created",
		zap.String("conversation_id", conv.ID),
		zap.String("user_id", userID),
	)

	return conv, nil
}

// List returns the user's conversations ordered by recency.
func (s *ConversationService) List(ctx context.Context, userID string) ([]model.Conversation, error) {
	return s.store.ListConversations(ctx, userID)
}

// Messages returns the turns of a conversation owned by the user, in time
// order.
func (s *ConversationService) Messages(ctx context.Context, userID, conversationID string) ([]model.Message, error) {
	if _, err := s.store.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, userID, conversationID, 100)
}
