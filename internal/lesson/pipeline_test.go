package lesson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/visualtutor-ai/tutor-platform/pkg/logger"
)

// fakeGenerator returns canned results per prompt, optionally delaying some
// so completion order differs from request order.
type fakeGenerator struct {
	mu      sync.Mutex
	results map[string]string
	fail    map[string]bool
	delays  map[string]time.Duration
	calls   []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.mu.Unlock()

	if d := f.delays[prompt]; d > 0 {
		time.Sleep(d)
	}
	if f.fail[prompt] {
		return "", errors.New("upstream 500")
	}
	return f.results[prompt], nil
}

func rawWithPrompts(prompts ...string) string {
	out := "lesson body "
	for _, p := range prompts {
		out += "<VISUAL_PROMPT>" + p + "</VISUAL_PROMPT> more text "
	}
	return out
}

func TestPipelinePreservesPromptOrder(t *testing.T) {
	gen := &fakeGenerator{
		results: map[string]string{
			"slow prompt": "https://img.example/slow.png",
			"fast prompt": "https://img.example/fast.png",
		},
		delays: map[string]time.Duration{"slow prompt": 50 * time.Millisecond},
	}
	p := NewPipeline(gen, 4, logger.NewNop())

	content := p.Process(context.Background(), rawWithPrompts("slow prompt", "fast prompt"))

	want := []string{"https://img.example/slow.png", "https://img.example/fast.png"}
	if len(content.Images) != 2 {
		t.Fatalf("got %d images, want 2: %v", len(content.Images), content.Images)
	}
	for i, url := range content.Images {
		if url != want[i] {
			t.Errorf("images[%d] = %q, want %q (completion order must not reorder results)", i, url, want[i])
		}
	}
}

func TestPipelinePartialFailureKeepsOthers(t *testing.T) {
	gen := &fakeGenerator{
		results: map[string]string{"second": "https://img.example/second.png"},
		fail:    map[string]bool{"first": true},
	}
	p := NewPipeline(gen, 4, logger.NewNop())

	content := p.Process(context.Background(), rawWithPrompts("first", "second"))

	if len(content.VisualPrompts) != 2 {
		t.Fatalf("got %d prompts, want 2", len(content.VisualPrompts))
	}
	if len(content.Images) != 1 || content.Images[0] != "https://img.example/second.png" {
		t.Fatalf("images = %v, want only the second prompt's URL", content.Images)
	}
}

func TestPipelineCapsImageAttempts(t *testing.T) {
	gen := &fakeGenerator{results: map[string]string{}}
	for i := 0; i < 6; i++ {
		gen.results[fmt.Sprintf("p%d", i)] = fmt.Sprintf("https://img.example/%d.png", i)
	}
	p := NewPipeline(gen, 2, logger.NewNop())

	content := p.Process(context.Background(), rawWithPrompts("p0", "p1", "p2", "p3", "p4", "p5"))

	if len(content.VisualPrompts) != 6 {
		t.Fatalf("extraction must not be capped, got %d prompts", len(content.VisualPrompts))
	}
	if len(gen.calls) != 2 {
		t.Fatalf("got %d generation calls, want 2", len(gen.calls))
	}
	if len(content.Images) != 2 {
		t.Fatalf("got %d images, want 2", len(content.Images))
	}
}

func TestPipelineNilGeneratorSkipsFanout(t *testing.T) {
	p := NewPipeline(nil, 4, logger.NewNop())

	content := p.Process(context.Background(), rawWithPrompts("one", "two"))

	if len(content.VisualPrompts) != 2 {
		t.Fatalf("got %d prompts, want 2", len(content.VisualPrompts))
	}
	if len(content.Images) != 0 {
		t.Fatalf("images = %v, want none without a generator", content.Images)
	}
}

func TestPipelineNoPrompts(t *testing.T) {
	gen := &fakeGenerator{}
	p := NewPipeline(gen, 4, logger.NewNop())

	content := p.Process(context.Background(), "  plain text reply  ")

	if content.Content != "plain text reply" {
		t.Errorf("content = %q, want trimmed input", content.Content)
	}
	if len(content.VisualPrompts) != 0 || len(content.Images) != 0 {
		t.Errorf("expected empty lists, got prompts=%v images=%v", content.VisualPrompts, content.Images)
	}
	if len(gen.calls) != 0 {
		t.Errorf("generator must not be called with zero prompts")
	}

	// The wire contract promises string arrays, never null.
	data, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"visualPrompts":[]`) {
		t.Errorf("serialized form = %s, want visualPrompts as an empty array", data)
	}
	if !strings.Contains(string(data), `"images":[]`) {
		t.Errorf("serialized form = %s, want images as an empty array", data)
	}
}
