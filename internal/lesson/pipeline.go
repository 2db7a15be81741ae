package lesson

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/visualtutor-ai/tutor-platform/internal/image"
	"github.com/visualtutor-ai/tutor-platform/internal/model"
	"github.com/visualtutor-ai/tutor-platform/pkg/logger"
	"github.com/visualtutor-ai/tutor-platform/pkg/metrics"
)

// Pipeline turns raw model output into lesson content. It holds no state
// between calls; its only side effect is outbound image-generation requests.
type Pipeline struct {
	generator image.Generator
	maxImages int
	logger    *logger.Logger
}

// NewPipeline creates a pipeline. A nil generator disables image fan-out
// entirely without failing requests.
func NewPipeline(gen image.Generator, maxImages int, log *logger.Logger) *Pipeline {
	if maxImages <= 0 {
		maxImages = 4
	}
	return &Pipeline{
		generator: gen,
		maxImages: maxImages,
		logger:    log,
	}
}

// Process extracts visual prompts from raw text and generates images for up
// to maxImages of them concurrently. Results are collected positionally so
// the image list is an order-preserving subset of the prompt list; a failed
// or malformed generation for one prompt never aborts the others.
func (p *Pipeline) Process(ctx context.Context, raw string) model.LessonContent {
	cleaned, prompts := ExtractVisualPrompts(raw)
	metrics.VisualPromptsExtracted.Add(float64(len(prompts)))

	content := model.LessonContent{
		Content:       cleaned,
		VisualPrompts: prompts,
		Images:        []string{},
	}

	if p.generator == nil || len(prompts) == 0 {
		return content
	}

	attempt := prompts
	if len(attempt) > p.maxImages {
		attempt = attempt[:p.maxImages]
	}

	results := make([]string, len(attempt))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(attempt))
	for i, prompt := range attempt {
		i, prompt := i, prompt
		g.Go(func() error {
			url, err := p.generator.Generate(gctx, prompt)
			if err != nil {
				metrics.ImageGenerations.WithLabelValues("error").Inc()
				p.logger.Warn("image generation failed for prompt",
					zap.Int("prompt_index", i),
					zap.Error(err),
				)
				return nil
			}
			metrics.ImageGenerations.WithLabelValues("success").Inc()
			results[i] = url
			return nil
		})
	}
	// Per-prompt errors are swallowed above, so Wait cannot fail.
	_ = g.Wait()

	for _, url := range results {
		if url != "" {
			content.Images = append(content.Images, url)
		}
	}

	return content
}
