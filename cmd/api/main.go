// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/visualtutor-ai/tutor-platform/internal/config"
	"github.com/visualtutor-ai/tutor-platform/internal/handler"
	"github.com/visualtutor-ai/tutor-platform/internal/image"
	"github.com/visualtutor-ai/tutor-platform/internal/lesson"
	"github.com/visualtutor-ai/tutor-platform/internal/llm"
	"github.com/visualtutor-ai/tutor-platform/internal/middleware"
	"github.com/visualtutor-ai/tutor-platform/internal/service"
	"github.com/visualtutor-ai/tutor-platform/internal/store"
	"github.com/visualtutor-ai/tutor-platform/internal/transcript"
	"github.com/visualtutor-ai/tutor-platform/pkg/logger"
	"github.com/visualtutor-ai/tutor-platform/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "tutor-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS (conversation store)
	natsClient, err := store.Connect(ctx, store.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log)
	if err != nil {
		log.Error("failed to connect to NATS", zap.Error(err))
		os.Exit(1)
	}
	defer natsClient.Close()

	st := store.New(natsClient)
	if err := st.Ensure(ctx); err != nil {
		log.Error("failed to ensure stream and buckets", zap.Error(err))
		os.Exit(1)
	}

	// Connect to redis (transcript cache)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to redis", zap.Error(err))
		os.Exit(1)
	}
	defer redisClient.Close()

	// LLM client
	llmClient, err := llm.NewClient(llm.Provider(cfg.LLMProvider), llm.Options{
		APIKey:  firstNonEmpty(cfg.LLMAPIKey, cfg.AnthropicAPIKey),
		BaseURL: cfg.LLMGatewayURL,
		Model:   cfg.LLMModel,
	})
	if err != nil {
		log.Error("failed to create LLM client", zap.Error(err))
		os.Exit(1)
	}

	// Image generator; missing credential disables fan-out without failing
	// chat requests.
	var generator image.Generator
	if gen, err := image.NewOpenAIGenerator(cfg.ImageAPIKey, cfg.ImageGatewayURL, cfg.ImageModel); err != nil {
		log.Warn("image generation disabled", zap.Error(err))
	} else {
		generator = gen
	}

	// Transcript cache + fetcher
	cache := transcript.NewCache(redisClient)
	fetcher := transcript.NewFetcher(cfg.RapidAPIKey, cfg.RapidAPIHost)

	// Services
	pipeline := lesson.NewPipeline(generator, cfg.MaxImages, log)
	conversationSvc := service.NewConversationService(st, log)
	lessonSvc := service.NewLessonService(st, conversationSvc, llmClient, pipeline, log)
	transcriptSvc := service.NewTranscriptService(st, cache, fetcher, llmClient, pipeline, lessonSvc, log)

	// Handlers
	healthHandler := handler.NewHealthHandler(natsClient)
	chatHandler := handler.NewChatHandler(lessonSvc, log)
	transcribeHandler := handler.NewTranscribeHandler(transcriptSvc, log)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)
	userDataHandler := handler.NewUserDataHandler(st, log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/chat", chatHandler.Chat)
		r.Post("/transcribe", transcribeHandler.Transcribe)
		r.Get("/conversations", conversationHandler.Get)
		r.Post("/conversations", conversationHandler.Create)
		r.Get("/user-data", userDataHandler.Get)
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
