// Package lesson post-processes raw model output into structured teaching
// content: it extracts visual-prompt directives and fans out image
// generation for them.
package lesson

import (
	"strings"
)

const (
	openTag  = "<VISUAL_PROMPT>"
	closeTag = "</VISUAL_PROMPT>"
)

// ExtractVisualPrompts scans raw model output for paired
// <VISUAL_PROMPT>...</VISUAL_PROMPT> directives in a single pass. Directives
// do not nest, so each open tag pairs with the next close tag (non-greedy).
// It returns the text with every matched directive removed plus the trimmed
// inner texts in document order. An open tag without a matching close tag is
// not a directive and is left in place.
func ExtractVisualPrompts(raw string) (cleaned string, prompts []string) {
	// Non-nil so a directive-free reply serializes as an empty list.
	prompts = []string{}

	var b strings.Builder
	b.Grow(len(raw))

	rest := raw
	for {
		start := strings.Index(rest, openTag)
		if start < 0 {
			b.WriteString(rest)
			break
		}

		end := strings.Index(rest[start+len(openTag):], closeTag)
		if end < 0 {
			b.WriteString(rest)
			break
		}

		inner := rest[start+len(openTag) : start+len(openTag)+end]
		prompts = append(prompts, strings.TrimSpace(inner))

		b.WriteString(rest[:start])
		rest = rest[start+len(openTag)+end+len(closeTag):]
	}

	return strings.TrimSpace(b.String()), prompts
}
