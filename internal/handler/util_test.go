package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/visualtutor-ai/tutor-platform/internal/llm"
	"github.com/visualtutor-ai/tutor-platform/internal/store"
	"github.com/visualtutor-ai/tutor-platform/internal/transcript"
)

func TestWriteUpstreamErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			"rate limited",
			llm.ErrRateLimited,
			http.StatusTooManyRequests,
			"Rate limit exceeded. Please try again in a moment.",
		},
		{
			"quota exceeded",
			llm.ErrQuotaExceeded,
			http.StatusPaymentRequired,
			"AI usage limit reached. Please add credits to continue.",
		},
		{
			"wrapped rate limit",
			fmt.Errorf("completion failed: %w", llm.ErrRateLimited),
			http.StatusTooManyRequests,
			"Rate limit exceeded. Please try again in a moment.",
		},
		{
			"invalid video url",
			transcript.ErrInvalidVideoURL,
			http.StatusBadRequest,
			"Invalid YouTube URL",
		},
		{
			"transcript unavailable",
			transcript.ErrTranscriptUnavailable,
			http.StatusInternalServerError,
			"Could not fetch a transcript for this video",
		},
		{
			"not found",
			store.ErrNotFound,
			http.StatusNotFound,
			"not found",
		},
		{
			"unknown error",
			errors.New("boom"),
			http.StatusInternalServerError,
			"An unexpected error occurred",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeUpstreamError(rec, tc.err)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tc.wantMsg {
				t.Errorf("error = %q, want %q", body["error"], tc.wantMsg)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type = %q", ct)
			}
		})
	}
}
