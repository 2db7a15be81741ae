package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/visualtutor-ai/tutor-platform/internal/middleware"
	"github.com/visualtutor-ai/tutor-platform/internal/model"
	"github.com/visualtutor-ai/tutor-platform/internal/service"
	"github.com/visualtutor-ai/tutor-platform/pkg/logger"
)

// ChatHandler handles the tutoring chat endpoint.
type ChatHandler struct {
	lessons *service.LessonService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(lessons *service.LessonService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		lessons: lessons,
		logger:  log,
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.lessons.Chat(ctx, userID, &req)
	if err != nil {
		h.logger.WithRequest(middleware.GetCorrelationID(ctx), userID).Error(
			"chat request failed",
			zap.Error(err),
		)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
