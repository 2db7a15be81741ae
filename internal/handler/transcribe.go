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

// TranscribeHandler handles the video-lesson endpoint.
type TranscribeHandler struct {
	transcripts *service.TranscriptService
	logger      *logger.Logger
}

// NewTranscribeHandler creates a new transcribe handler.
func NewTranscribeHandler(transcripts *service.TranscriptService, log *logger.Logger) *TranscribeHandler {
	return &TranscribeHandler{
		transcripts: transcripts,
		logger:      log,
	}
}

// Transcribe handles POST /api/v1/transcribe
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.VideoURL == "" {
		writeError(w, http.StatusBadRequest, "videoUrl is required")
		return
	}

	resp, err := h.transcripts.Transcribe(ctx, userID, &req)
	if err != nil {
		h.logger.WithRequest(middleware.GetCorrelationID(ctx), userID).Error(
			"transcribe request failed",
			zap.String("video_url", req.VideoURL),
			zap.Error(err),
		)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
