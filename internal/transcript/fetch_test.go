package transcript

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher("test-key", strings.TrimPrefix(srv.URL, "https://"))
	f.httpClient = srv.Client()
	f.baseDelay = time.Millisecond
	return f, &calls
}

func TestFetchSucceedsFirstTry(t *testing.T) {
	f, calls := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-rapidapi-key"); got != "test-key" {
			t.Errorf("x-rapidapi-key = %q", got)
		}
		if got := r.URL.Query().Get("video_id"); got != "abc12345678" {
			t.Errorf("video_id = %q", got)
		}
		w.Write([]byte(`[{"text":"hello"}]`))
	})

	payload, err := f.Fetch(context.Background(), "abc12345678")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(payload) != `[{"text":"hello"}]` {
		t.Errorf("payload = %s", payload)
	}
	if calls.Load() != 1 {
		t.Errorf("got %d requests, want 1", calls.Load())
	}
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var n atomic.Int32
	f, calls := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) <= 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"text":"recovered"}]`))
	})

	payload, err := f.Fetch(context.Background(), "abc12345678")
	if err != nil {
		t.Fatalf("fetch after transient failures: %v", err)
	}
	if string(payload) != `[{"text":"recovered"}]` {
		t.Errorf("payload = %s", payload)
	}
	if calls.Load() != 4 {
		t.Errorf("got %d requests, want 4 (initial attempt + 3 retries)", calls.Load())
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	f, calls := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := f.Fetch(context.Background(), "abc12345678")
	if !errors.Is(err, ErrTranscriptUnavailable) {
		t.Fatalf("got err %v, want ErrTranscriptUnavailable", err)
	}
	if calls.Load() != 4 {
		t.Errorf("got %d requests, want 4", calls.Load())
	}
}

func TestFetchEmptyPayloadNotRetried(t *testing.T) {
	for _, body := range []string{"null", `""`, "[]", "{}"} {
		t.Run(body, func(t *testing.T) {
			f, calls := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			_, err := f.Fetch(context.Background(), "abc12345678")
			if !errors.Is(err, ErrTranscriptUnavailable) {
				t.Fatalf("got err %v, want ErrTranscriptUnavailable", err)
			}
			if calls.Load() != 1 {
				t.Errorf("empty payload was retried: %d requests", calls.Load())
			}
		})
	}
}

func TestFetchContextCancellation(t *testing.T) {
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	f.baseDelay = 10 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, "abc12345678")
	if err == nil {
		t.Fatal("expected an error once the context expired")
	}
}

func TestRetryPolicyDoublesFromBase(t *testing.T) {
	policy := newRetryPolicy(300 * time.Millisecond)

	want := []time.Duration{300 * time.Millisecond, 600 * time.Millisecond, 1200 * time.Millisecond}
	for i, w := range want {
		if got := policy.NextBackOff(); got != w {
			t.Errorf("delay[%d] = %v, want %v", i, got, w)
		}
	}
}
