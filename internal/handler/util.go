// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/visualtutor-ai/tutor-platform/internal/llm"
	"github.com/visualtutor-ai/tutor-platform/internal/store"
	"github.com/visualtutor-ai/tutor-platform/internal/transcript"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeUpstreamError maps the error taxonomy to user-facing responses.
// Provider-distinguishable failures keep distinct messages; everything else
// collapses to a generic message.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again in a moment.")
	case errors.Is(err, llm.ErrQuotaExceeded):
		writeError(w, http.StatusPaymentRequired, "AI usage limit reached. Please add credits to continue.")
	case errors.Is(err, transcript.ErrInvalidVideoURL):
		writeError(w, http.StatusBadRequest, "Invalid YouTube URL")
	case errors.Is(err, transcript.ErrTranscriptUnavailable):
		writeError(w, http.StatusInternalServerError, "Could not fetch a transcript for this video")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
