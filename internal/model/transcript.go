package model

import (
	"encoding/json"
	"time"
)

// Transcript sources.
const (
	TranscriptSourceCache    = "cache"
	TranscriptSourceRapidAPI = "rapidapi"
)

// TranscriptEntry is a time-bounded cached copy of a fetched video
// transcript, keyed by video id. An entry is usable iff now < ExpiresAt.
type TranscriptEntry struct {
	VideoID    string          `json:"video_id"`
	VideoURL   string          `json:"video_url"`
	Transcript json.RawMessage `json:"transcript"`
	Source     string          `json:"source"`
	FetchedAt  time.Time       `json:"fetched_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
	CreatedBy  string          `json:"created_by"`
}

// Valid reports whether the entry is still usable at the given instant.
func (e *TranscriptEntry) Valid(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// TranscribeRequest is the request body for POST /transcribe.
type TranscribeRequest struct {
	VideoURL       string `json:"videoUrl"`
	ConversationID string `json:"conversationId,omitempty"`
}

// TranscribeResponse is the response body for POST /transcribe.
type TranscribeResponse struct {
	VideoID    string          `json:"videoId"`
	VideoURL   string          `json:"videoUrl"`
	Transcript json.RawMessage `json:"transcript"`
	Lesson     LessonContent   `json:"lesson"`
	Source     string          `json:"source"`
	Cached     bool            `json:"cached"`
}
