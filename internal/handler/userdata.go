package handler

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/visualtutor-ai/tutor-platform/internal/middleware"
	"github.com/visualtutor-ai/tutor-platform/internal/model"
	"github.com/visualtutor-ai/tutor-platform/internal/store"
	"github.com/visualtutor-ai/tutor-platform/pkg/logger"
)

// UserDataHandler serves read-only projections of the caller's stored data.
type UserDataHandler struct {
	store  *store.Store
	logger *logger.Logger
}

// NewUserDataHandler creates a new user-data handler.
func NewUserDataHandler(st *store.Store, log *logger.Logger) *UserDataHandler {
	return &UserDataHandler{
		store:  st,
		logger: log,
	}
}

// Get handles GET /api/v1/user-data?type=profile|memory|documents
func (h *UserDataHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	switch r.URL.Query().Get("type") {
	case "profile":
		profile, err := h.store.GetProfile(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			// No stored projection yet; derive one from the token claims and
			// persist it so later reads see a stable created_at.
			profile = &model.Profile{
				ID:        userID,
				Email:     middleware.GetEmail(ctx),
				CreatedAt: time.Now(),
			}
			if putErr := h.store.PutProfile(ctx, profile); putErr != nil {
				h.logger.Warn("failed to store derived profile", zap.Error(putErr))
			}
			err = nil
		}
		if err != nil {
			h.logger.Error("failed to read profile", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read profile")
			return
		}
		writeJSON(w, http.StatusOK, profile)

	case "memory":
		mem, err := h.store.GetUserMemory(ctx, userID)
		if err != nil {
			h.logger.Error("failed to read user memory", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read user memory")
			return
		}
		if mem == nil {
			mem = model.DefaultUserMemory(userID)
		}
		writeJSON(w, http.StatusOK, mem)

	case "documents":
		docs, err := h.store.ListDocuments(ctx, userID)
		if err != nil {
			h.logger.Error("failed to read documents", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read documents")
			return
		}
		writeJSON(w, http.StatusOK, docs)

	default:
		writeError(w, http.StatusBadRequest, "invalid data type requested")
	}
}
