package transcript

import (
	"encoding/json"
	"strings"
)

// maxTranscriptChars bounds the flattened text so the downstream completion
// stays inside the provider's context window.
const maxTranscriptChars = 150000

// Flatten converts a provider transcript payload into plain text. The
// provider returns either an array of timed segments or a single object;
// anything unrecognized falls back to its raw JSON form.
func Flatten(raw json.RawMessage) string {
	var segments []map[string]any
	if err := json.Unmarshal(raw, &segments); err == nil {
		parts := make([]string, 0, len(segments))
		for _, seg := range segments {
			if s, ok := seg["text"].(string); ok && s != "" {
				parts = append(parts, s)
				continue
			}
			if s, ok := seg["content"].(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return truncate(strings.Join(parts, " "))
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		if s, ok := obj["text"].(string); ok && s != "" {
			return truncate(s)
		}
	}

	return truncate(string(raw))
}

func truncate(s string) string {
	if len(s) <= maxTranscriptChars {
		return s
	}
	return s[:maxTranscriptChars] + "... [truncated]"
}
