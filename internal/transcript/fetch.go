package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/visualtutor-ai/tutor-platform/pkg/metrics"
)

// ErrTranscriptUnavailable is returned when the provider yields no usable
// transcript, either after retry exhaustion or via an empty payload.
var ErrTranscriptUnavailable = errors.New("transcript unavailable")

const (
	fetchBaseDelay  = 300 * time.Millisecond
	fetchMaxRetries = 3
)

// Fetcher retrieves transcripts from the RapidAPI transcript provider.
type Fetcher struct {
	httpClient *http.Client
	apiKey     string
	host       string

	// retry knobs, overridden in tests
	baseDelay  time.Duration
	maxRetries uint64
}

// NewFetcher creates a transcript fetcher.
func NewFetcher(apiKey, host string) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		host:       host,
		baseDelay:  fetchBaseDelay,
		maxRetries: fetchMaxRetries,
	}
}

// Fetch retrieves the transcript for a video id. Transport errors and
// non-success statuses are retried with exponential backoff (doubling from
// the base delay, fixed retry count); exhaustion is terminal. An empty or
// null payload on a successful response is invalid and is not retried.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (json.RawMessage, error) {
	payload, err := backoff.RetryWithData(
		func() (json.RawMessage, error) {
			return f.fetchOnce(ctx, videoID)
		},
		backoff.WithContext(backoff.WithMaxRetries(newRetryPolicy(f.baseDelay), f.maxRetries), ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscriptUnavailable, err)
	}
	return payload, nil
}

// newRetryPolicy doubles from the base delay with no jitter, so retry waits
// are strictly non-decreasing.
func newRetryPolicy(base time.Duration) backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = base
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0
	policy.Reset()
	return policy
}

func (f *Fetcher) fetchOnce(ctx context.Context, videoID string) (json.RawMessage, error) {
	endpoint := url.URL{
		Scheme:   "https",
		Host:     f.host,
		Path:     "/transcript",
		RawQuery: url.Values{"video_id": {videoID}, "lang": {"en"}}.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("x-rapidapi-key", f.apiKey)
	req.Header.Set("x-rapidapi-host", f.host)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		metrics.TranscriptFetchAttempts.WithLabelValues("transport_error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.TranscriptFetchAttempts.WithLabelValues("http_error").Inc()
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("provider returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.TranscriptFetchAttempts.WithLabelValues("transport_error").Inc()
		return nil, err
	}

	if emptyPayload(body) {
		metrics.TranscriptFetchAttempts.WithLabelValues("empty").Inc()
		return nil, backoff.Permanent(errors.New("transcript payload is empty"))
	}

	metrics.TranscriptFetchAttempts.WithLabelValues("success").Inc()
	return json.RawMessage(body), nil
}

func emptyPayload(body []byte) bool {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return true
	}
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
