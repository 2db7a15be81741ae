// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LLMRequestDuration tracks chat-completion call duration.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "LLM completion request duration",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"model", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// VisualPromptsExtracted tracks visual prompts parsed out of replies.
	VisualPromptsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "visual_prompts_extracted_total",
			Help: "Total visual prompt directives extracted from model output",
		},
	)

	// ImageGenerations tracks image generation attempts by outcome.
	ImageGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_generations_total",
			Help: "Total image generation attempts",
		},
		[]string{"status"},
	)

	// TranscriptCacheLookups tracks transcript cache hits and misses.
	TranscriptCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_cache_lookups_total",
			Help: "Transcript cache lookups",
		},
		[]string{"result"},
	)

	// TranscriptFetchAttempts tracks outbound transcript provider attempts.
	TranscriptFetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_fetch_attempts_total",
			Help: "Transcript provider fetch attempts",
		},
		[]string{"status"},
	)

	// ConversationsTotal tracks total conversations created.
	ConversationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_total",
			Help: "Total conversations created",
		},
	)

	// MessagesTotal tracks total turns appended.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total conversation turns appended",
		},
		[]string{"role"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLMRequest records metrics for a completion call.
func RecordLLMRequest(model, status string, duration float64, tokensIn, tokensOut int) {
	LLMRequestDuration.WithLabelValues(model, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// RecordCacheLookup records a transcript cache lookup result.
func RecordCacheLookup(result string) {
	TranscriptCacheLookups.WithLabelValues(result).Inc()
}
