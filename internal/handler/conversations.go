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

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: svc,
		logger:  log,
	}
}

// Get handles GET /api/v1/conversations. Without an id it lists the caller's
// conversations by recency; with ?id= it returns that conversation's turns in
// time order.
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	conversationID := r.URL.Query().Get("id")
	if conversationID == "" {
		convs, err := h.service.List(ctx, userID)
		if err != nil {
			h.logger.Error("failed to list conversations", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list conversations")
			return
		}
		writeJSON(w, http.StatusOK, convs)
		return
	}

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := h.service.Messages(ctx, userID, conversationID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// Create handles POST /api/v1/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateTitle(req.Title); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.service.Create(ctx, userID, req.Title)
	if err != nil {
		h.logger.Error("failed to create conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create conversation")
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}
