package transcript

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFlattenSegmentArray(t *testing.T) {
	raw := json.RawMessage(`[{"text":"hello","start":0},{"text":"world","start":1.5}]`)

	if got := Flatten(raw); got != "hello world" {
		t.Errorf("got %q, want %q", got, "hello world")
	}
}

func TestFlattenContentKey(t *testing.T) {
	raw := json.RawMessage(`[{"content":"first"},{"content":"second"}]`)

	if got := Flatten(raw); got != "first second" {
		t.Errorf("got %q, want %q", got, "first second")
	}
}

func TestFlattenSingleObject(t *testing.T) {
	raw := json.RawMessage(`{"text":"whole transcript here"}`)

	if got := Flatten(raw); got != "whole transcript here" {
		t.Errorf("got %q", got)
	}
}

func TestFlattenUnrecognizedFallsBackToRaw(t *testing.T) {
	raw := json.RawMessage(`{"segments":[1,2,3]}`)

	if got := Flatten(raw); got != string(raw) {
		t.Errorf("got %q, want raw payload", got)
	}
}

func TestFlattenTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", maxTranscriptChars+100)
	raw, _ := json.Marshal(map[string]string{"text": long})

	got := Flatten(raw)
	if !strings.HasSuffix(got, "... [truncated]") {
		t.Fatal("long transcript was not marked truncated")
	}
	if len(got) != maxTranscriptChars+len("... [truncated]") {
		t.Errorf("truncated length = %d", len(got))
	}
}
