package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/visualtutor-ai/tutor-platform/internal/lesson"
	"github.com/visualtutor-ai/tutor-platform/internal/llm"
	"github.com/visualtutor-ai/tutor-platform/internal/model"
	"github.com/visualtutor-ai/tutor-platform/internal/prompt"
	"github.com/visualtutor-ai/tutor-platform/internal/store"
	"github.com/visualtutor-ai/tutor-platform/internal/transcript"
	"github.com/visualtutor-ai/tutor-platform/pkg/logger"
	"github.com/visualtutor-ai/tutor-platform/pkg/metrics"
)

// TranscriptService turns a YouTube video into a personalized lesson, going
// through the transcript cache first.
type TranscriptService struct {
	store     *store.Store
	cache     *transcript.Cache
	fetcher   *transcript.Fetcher
	llmClient llm.Client
	pipeline  *lesson.Pipeline
	lessons   *LessonService
	logger    *logger.Logger
}

// NewTranscriptService creates a new transcript service.
func NewTranscriptService(
	st *store.Store,
	cache *transcript.Cache,
	fetcher *transcript.Fetcher,
	llmClient llm.Client,
	pipe *lesson.Pipeline,
	lessons *LessonService,
	log *logger.Logger,
) *TranscriptService {
	return &TranscriptService{
		store:     st,
		cache:     cache,
		fetcher:   fetcher,
		llmClient: llmClient,
		pipeline:  pipe,
		lessons:   lessons,
		logger:    log,
	}
}

// Transcribe resolves the video transcript (cache or provider), generates a
// lesson from it, and optionally appends the exchange to a conversation.
func (s *TranscriptService) Transcribe(ctx context.Context, userID string, req *model.TranscribeRequest) (*model.TranscribeResponse, error) {
	videoID, err := transcript.ExtractVideoID(req.VideoURL)
	if err != nil {
		return nil, err
	}

	entry, cached, err := s.cache.Lookup(ctx, videoID)
	if err != nil {
		s.logger.Warn("transcript cache lookup failed",
			zap.String("video_id", videoID),
			zap.Error(err),
		)
		cached = false
	}

	if !cached {
		// No stale fallback: an expired entry with a failed refetch is
		// fatal to the request.
		payload, err := s.fetcher.Fetch(ctx, videoID)
		if err != nil {
			return nil, err
		}

		entry = &model.TranscriptEntry{
			VideoID:    videoID,
			VideoURL:   req.VideoURL,
			Transcript: payload,
			Source:     model.TranscriptSourceRapidAPI,
			FetchedAt:  time.Now(),
			CreatedBy:  userID,
		}
		if err := s.cache.Store(ctx, entry); err != nil {
			s.logger.Warn("failed to cache transcript",
				zap.String("video_id", videoID),
				zap.Error(err),
			)
		}
	}

	mem, err := s.store.GetUserMemory(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to read user memory, using defaults",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		mem = nil
	}
	if mem == nil {
		mem = model.DefaultUserMemory(userID)
	}

	transcriptText := transcript.Flatten(entry.Transcript)

	start := time.Now()
	resp, err := s.llmClient.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.ChatMessage{
			{Role: string(model.RoleSystem), Content: prompt.ComposeVideoLesson(mem)},
			{Role: string(model.RoleUser), Content: "Here is the YouTube video transcript to analyze and teach:\n\n" + transcriptText},
		},
	})
	if err != nil {
		metrics.RecordLLMRequest("", "error", time.Since(start).Seconds(), 0, 0)
		return nil, err
	}
	metrics.RecordLLMRequest(resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	content := s.pipeline.Process(ctx, resp.Content)

	if req.ConversationID != "" {
		if err := s.lessons.persistExchange(ctx, userID, req.ConversationID, req.VideoURL, content, resp); err != nil {
			s.logger.Error("failed to persist transcript lesson",
				zap.String("conversation_id", req.ConversationID),
				zap.Error(err),
			)
		}
	}

	s.lessons.touchMemory(userID)

	source := entry.Source
	if cached {
		source = model.TranscriptSourceCache
	}

	return &model.TranscribeResponse{
		VideoID:    videoID,
		VideoURL:   req.VideoURL,
		Transcript: entry.Transcript,
		Lesson:     content,
		Source:     source,
		Cached:     cached,
	}, nil
}
