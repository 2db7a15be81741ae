package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents one conversation turn. Immutable once appended.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`

	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Lesson artifacts (assistant turns only). Images is always an
	// order-preserving subset of VisualPrompts.
	Images        []string `json:"images,omitempty"`
	VisualPrompts []string `json:"visual_prompts,omitempty"`

	// LLM metadata (nullable for user turns)
	Model     *string `json:"model,omitempty"`
	TokensIn  *int    `json:"tokens_in,omitempty"`
	TokensOut *int    `json:"tokens_out,omitempty"`
	LatencyMs *int64  `json:"latency_ms,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// JetStream metadata, populated on read
	Sequence uint64 `json:"sequence,omitempty"`
}

// ChatRequest is the request body for POST /chat.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
	FileContent    string `json:"fileContent,omitempty"`
	FileType       string `json:"fileType,omitempty"`
	FileName       string `json:"fileName,omitempty"`
}

// ChatResponse is the response body for POST /chat.
type ChatResponse struct {
	Content        string   `json:"content"`
	Images         []string `json:"images"`
	VisualPrompts  []string `json:"visualPrompts"`
	ConversationID string   `json:"conversationId,omitempty"`
}

// LessonContent is the post-processed model reply.
type LessonContent struct {
	Content       string   `json:"content"`
	VisualPrompts []string `json:"visualPrompts"`
	Images        []string `json:"images"`
}
