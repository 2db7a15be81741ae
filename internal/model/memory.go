package model

import (
	"time"
)

// Default personalization values substituted when a user has no stored
// memory record yet.
const (
	DefaultLearningStyle   = "visual"
	DefaultDifficultyLevel = "medium"
	DefaultPreferredFormat = "diagrams"
)

// UserMemory is the persisted personalization profile read on every
// lesson-generation request. last_active is overwrite-only, last write wins.
type UserMemory struct {
	UserID          string    `json:"user_id"`
	LearningStyle   string    `json:"learning_style"`
	DifficultyLevel string    `json:"difficulty_level"`
	PreferredFormat string    `json:"preferred_format"`
	TopicsStudied   []string  `json:"topics_studied,omitempty"`
	Strengths       []string  `json:"strengths,omitempty"`
	Weaknesses      []string  `json:"weaknesses,omitempty"`
	LastActive      time.Time `json:"last_active"`
}

// DefaultUserMemory returns the defaults used for users without a record.
func DefaultUserMemory(userID string) *UserMemory {
	return &UserMemory{
		UserID:          userID,
		LearningStyle:   DefaultLearningStyle,
		DifficultyLevel: DefaultDifficultyLevel,
		PreferredFormat: DefaultPreferredFormat,
	}
}

// Profile is the read-only identity projection served by /user-data.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Document records metadata for a file a user attached to a chat message.
type Document struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
