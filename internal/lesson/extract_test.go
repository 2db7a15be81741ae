package lesson

import (
	"strings"
	"testing"
)

func TestExtractVisualPromptsDocumentOrder(t *testing.T) {
	raw := `# Photosynthesis

## Key Points
- Plants make food from light
<VISUAL_PROMPT>diagram of a leaf absorbing sunlight</VISUAL_PROMPT>

## Step-by-Step Breakdown
1. **Light absorption**: Chlorophyll captures photons
   <VISUAL_PROMPT> chloroplast capturing light rays </VISUAL_PROMPT>
2. **Sugar production**: Glucose is assembled
<VISUAL_PROMPT>glucose molecules forming inside a plant cell</VISUAL_PROMPT>`

	cleaned, prompts := ExtractVisualPrompts(raw)

	want := []string{
		"diagram of a leaf absorbing sunlight",
		"chloroplast capturing light rays",
		"glucose molecules forming inside a plant cell",
	}
	if len(prompts) != len(want) {
		t.Fatalf("got %d prompts, want %d: %v", len(prompts), len(want), prompts)
	}
	for i, p := range prompts {
		if p != want[i] {
			t.Errorf("prompt[%d] = %q, want %q", i, p, want[i])
		}
	}

	if strings.Contains(cleaned, "<VISUAL_PROMPT>") || strings.Contains(cleaned, "</VISUAL_PROMPT>") {
		t.Errorf("cleaned text still contains directive delimiters:\n%s", cleaned)
	}
	if !strings.Contains(cleaned, "Chlorophyll captures photons") {
		t.Errorf("cleaned text lost surrounding prose:\n%s", cleaned)
	}
	if !strings.HasPrefix(cleaned, "# Photosynthesis") {
		t.Errorf("cleaned text should keep prose order, got prefix %q", cleaned[:min(40, len(cleaned))])
	}
}

func TestExtractVisualPromptsNoDirectives(t *testing.T) {
	raw := "  Just a plain explanation with no diagrams.  "

	cleaned, prompts := ExtractVisualPrompts(raw)

	if prompts == nil {
		t.Fatal("prompts must be an empty slice, not nil")
	}
	if len(prompts) != 0 {
		t.Fatalf("expected no prompts, got %v", prompts)
	}
	if cleaned != strings.TrimSpace(raw) {
		t.Errorf("cleaned = %q, want trimmed input %q", cleaned, strings.TrimSpace(raw))
	}
}

func TestExtractVisualPromptsEmptyInput(t *testing.T) {
	cleaned, prompts := ExtractVisualPrompts("")
	if cleaned != "" || len(prompts) != 0 {
		t.Errorf("got (%q, %v), want empty results", cleaned, prompts)
	}
}

func TestExtractVisualPromptsUnterminatedTag(t *testing.T) {
	raw := "before <VISUAL_PROMPT>never closed"

	cleaned, prompts := ExtractVisualPrompts(raw)

	if len(prompts) != 0 {
		t.Fatalf("unterminated tag must not produce a prompt, got %v", prompts)
	}
	if cleaned != raw {
		t.Errorf("cleaned = %q, want input left in place %q", cleaned, raw)
	}
}

func TestExtractVisualPromptsMixedTerminated(t *testing.T) {
	raw := "a <VISUAL_PROMPT>first</VISUAL_PROMPT> b <VISUAL_PROMPT>dangling"

	cleaned, prompts := ExtractVisualPrompts(raw)

	if len(prompts) != 1 || prompts[0] != "first" {
		t.Fatalf("got prompts %v, want [first]", prompts)
	}
	if !strings.Contains(cleaned, "<VISUAL_PROMPT>dangling") {
		t.Errorf("dangling open tag should remain, got %q", cleaned)
	}
	if strings.Contains(cleaned, "first") {
		t.Errorf("matched directive should be removed, got %q", cleaned)
	}
}

func TestExtractVisualPromptsAdjacentDirectives(t *testing.T) {
	raw := "<VISUAL_PROMPT>one</VISUAL_PROMPT><VISUAL_PROMPT>two</VISUAL_PROMPT>"

	cleaned, prompts := ExtractVisualPrompts(raw)

	if len(prompts) != 2 || prompts[0] != "one" || prompts[1] != "two" {
		t.Fatalf("got prompts %v, want [one two]", prompts)
	}
	if cleaned != "" {
		t.Errorf("cleaned = %q, want empty", cleaned)
	}
}
