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
	"go.uber.org/zap"

	"github.com/mazraati/assistant-platform/internal/config"
	"github.com/mazraati/assistant-platform/internal/engine"
	"github.com/mazraati/assistant-platform/internal/events"
	"github.com/mazraati/assistant-platform/internal/handler"
	"github.com/mazraati/assistant-platform/internal/middleware"
	"github.com/mazraati/assistant-platform/internal/rollup"
	"github.com/mazraati/assistant-platform/internal/service"
	"github.com/mazraati/assistant-platform/internal/store"
	"github.com/mazraati/assistant-platform/pkg/logger"
	"github.com/mazraati/assistant-platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "assistant-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Open the datastore
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to open datastore", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// Repositories
	sessionRepo := store.NewSessionRepository(db)
	messageRepo := store.NewMessageRepository(db)
	answerRepo := store.NewAnswerRepository(db)
	scenarioRepo := store.NewScenarioRepository(db)
	unansweredRepo := store.NewUnansweredRepository(db)
	metricRepo := store.NewMetricRepository(db)

	// Connect to NATS; the assistant works without it.
	var natsClient *events.Client
	var publisher *events.Publisher
	if cfg.NATSEnabled {
		natsClient, err = events.Connect(events.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, event publishing disabled", zap.Error(err))
		} else {
			defer natsClient.Close()
			publisher = events.NewPublisher(natsClient)
		}
	}

	// Services and engine
	sessionSvc := service.NewSessionService(sessionRepo, messageRepo)
	feedbackSvc := service.NewFeedbackService(messageRepo, answerRepo, log)
	suggestedSvc := service.NewSuggestedService(answerRepo, cfg.SuggestedQuestions)

	detector := engine.NewDetector(scenarioRepo)
	matcher := engine.NewMatcher(answerRepo, engine.MatchConfig{
		PhraseBonus:     cfg.MatchPhraseBonus,
		WordPoint:       cfg.MatchWordPoint,
		AcceptThreshold: cfg.MatchAcceptThreshold,
		MaxCandidates:   cfg.MatchMaxCandidates,
	})

	var notifier engine.Notifier
	if publisher != nil {
		notifier = publisher
	}
	eng := engine.New(sessionSvc, messageRepo, answerRepo, unansweredRepo,
		detector, matcher, notifier, log)

	// Daily metrics rollup, off the request path
	aggregator := rollup.NewAggregator(metricRepo, answerRepo, unansweredRepo, log)
	runner := rollup.NewRunner(aggregator, cfg.RollupHourUTC, cfg.RollupCheckInterval, log)
	runCtx, stopRunner := context.WithCancel(ctx)
	defer stopRunner()
	go runner.Run(runCtx)

	if publisher != nil {
		if _, err := publisher.SubscribeRollupTrigger(runner.Trigger); err != nil {
			log.Warn("failed to subscribe to rollup triggers", zap.Error(err))
		}
	}

	// Handlers
	healthHandler := handler.NewHealthHandler(db, natsClient)
	askHandler := handler.NewAskHandler(eng, log)
	sessionHandler := handler.NewSessionHandler(sessionSvc, cfg.HistoryLimit, log)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc, log)
	suggestedHandler := handler.NewSuggestedHandler(suggestedSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
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

	// API routes; auth is optional and only classifies the caller
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/assistant", func(r chi.Router) {
			r.Post("/ask", askHandler.Ask)
			r.Get("/suggested-questions", suggestedHandler.Questions)
			r.Post("/messages/{id}/feedback", feedbackHandler.Submit)

			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/messages", sessionHandler.Messages)
				r.Delete("/", sessionHandler.Deactivate)
			})
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
