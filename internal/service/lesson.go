package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visualtutor-ai/tutor-platform/internal/lesson"
	"github.com/visualtutor-ai/tutor-platform/internal/llm"
	"github.com/visualtutor-ai/tutor-platform/internal/model"
	"github.com/visualtutor-ai/tutor-platform/internal/prompt"
	"github.com/visualtutor-ai/tutor-platform/internal/store"
	"github.com/visualtutor-ai/tutor-platform/pkg/logger"
	"github.com/visualtutor-ai/tutor-platform/pkg/metrics"
)

const historyWindow = 20

// LessonService runs the chat lesson pipeline: compose, invoke, extract,
// fan out, persist.
type LessonService struct {
	store         *store.Store
	conversations *ConversationService
	llmClient     llm.Client
	pipeline      *lesson.Pipeline
	logger        *logger.Logger
}

// NewLessonService creates a new lesson service.
func NewLessonService(
	st *store.Store,
	convSvc *ConversationService,
	llmClient llm.Client,
	pipe *lesson.Pipeline,
	log *logger.Logger,
) *LessonService {
	return &LessonService{
		store:         st,
		conversations: convSvc,
		llmClient:     llmClient,
		pipeline:      pipe,
		logger:        log,
	}
}

// Chat handles one tutoring exchange and returns the structured reply.
func (s *LessonService) Chat(ctx context.Context, userID string, req *model.ChatRequest) (*model.ChatResponse, error) {
	mem, err := s.store.GetUserMemory(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to read user memory, using defaults",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		mem = nil
	}
	if mem == nil {
		mem = model.DefaultUserMemory(userID)
	}

	conv, err := s.resolveConversation(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	messages := s.assembleMessages(ctx, userID, conv.ID, mem, req)

	start := time.Now()
	resp, err := s.llmClient.Complete(ctx, &llm.CompletionRequest{
		Messages: messages,
	})
	if err != nil {
		metrics.RecordLLMRequest("", "error", time.Since(start).Seconds(), 0, 0)
		return nil, err
	}
	metrics.RecordLLMRequest(resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	content := s.pipeline.Process(ctx, resp.Content)

	if err := s.persistExchange(ctx, userID, conv.ID, req.Message, content, resp); err != nil {
		return nil, err
	}

	s.recordDocument(userID, req)
	s.touchMemory(userID)

	return &model.ChatResponse{
		Content:        content.Content,
		Images:         content.Images,
		VisualPrompts:  content.VisualPrompts,
		ConversationID: conv.ID,
	}, nil
}

// resolveConversation returns the addressed conversation, creating one when
// the id is absent or unknown. New conversations are titled from the first
// user message.
func (s *LessonService) resolveConversation(ctx context.Context, userID string, req *model.ChatRequest) (*model.Conversation, error) {
	if req.ConversationID != "" {
		conv, err := s.store.GetConversation(ctx, userID, req.ConversationID)
		if err == nil {
			return conv, nil
		}
		if err != store.ErrNotFound {
			return nil, err
		}
	}
	return s.conversations.Create(ctx, userID, titleFromMessage(req.Message))
}

func titleFromMessage(message string) string {
	title := strings.TrimSpace(message)
	if len(title) > 50 {
		title = title[:50]
	}
	if title == "" {
		title = "New Chat"
	}
	return title
}

// assembleMessages builds the ordered message list: system prompt, re-fetched
// recent history, then the current user turn. Attached image files ride on
// the final user turn as vision content; other files are appended as text.
func (s *LessonService) assembleMessages(ctx context.Context, userID, conversationID string, mem *model.UserMemory, req *model.ChatRequest) []llm.ChatMessage {
	messages := []llm.ChatMessage{
		{Role: string(model.RoleSystem), Content: prompt.Compose(mem)},
	}

	history, err := s.store.ListMessages(ctx, userID, conversationID, historyWindow)
	if err != nil {
		s.logger.Warn("failed to fetch conversation history",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
	}
	for _, msg := range history {
		messages = append(messages, llm.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	userTurn := llm.ChatMessage{
		Role:    string(model.RoleUser),
		Content: req.Message,
	}
	if req.FileContent != "" {
		if strings.HasPrefix(req.FileType, "image/") {
			userTurn.ImageURL = req.FileContent
		} else {
			userTurn.Content += "\n\nFile content:\n" + req.FileContent
		}
	}

	return append(messages, userTurn)
}

// persistExchange appends the user turn, then the assistant turn. A failed
// user-turn write fails the request; a failed assistant-turn write leaves a
// dangling user turn and is only logged, since this is a best-effort
// learning log.
func (s *LessonService) persistExchange(ctx context.Context, userID, conversationID, userContent string, content model.LessonContent, resp *llm.CompletionResponse) error {
	userMsg := &model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		UserID:         userID,
		Role:           model.RoleUser,
		Content:        userContent,
		CreatedAt:      time.Now(),
	}
	if _, err := s.store.AppendTurn(ctx, userMsg); err != nil {
		return err
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()

	assistantMsg := &model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		UserID:         userID,
		Role:           model.RoleAssistant,
		Content:        content.Content,
		Images:         content.Images,
		VisualPrompts:  content.VisualPrompts,
		Model:          &resp.Model,
		TokensIn:       &resp.TokensIn,
		TokensOut:      &resp.TokensOut,
		LatencyMs:      &resp.LatencyMs,
		CreatedAt:      time.Now(),
	}
	if _, err := s.store.AppendTurn(ctx, assistantMsg); err != nil {
		s.logger.Error("failed to append assistant turn",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		return nil
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleAssistant)).Inc()

	return nil
}

// recordDocument stores uploaded-file metadata for the /user-data documents
// projection. Best-effort.
func (s *LessonService) recordDocument(userID string, req *model.ChatRequest) {
	if req.FileName == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := s.store.RecordDocument(ctx, userID, model.Document{
			Name:      req.FileName,
			Type:      req.FileType,
			SizeBytes: len(req.FileContent),
			CreatedAt: time.Now(),
		})
		if err != nil {
			s.logger.Warn("failed to record document metadata",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}()
}

// touchMemory updates the user's last-active timestamp. Fire-and-forget
// bookkeeping: failures are logged, never retried, and never surface to the
// user.
func (s *LessonService) touchMemory(userID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.store.TouchUserMemory(ctx, userID); err != nil {
			s.logger.Warn("failed to touch user memory",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}()
}
