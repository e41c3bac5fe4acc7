// Command chatbot serves the vector search chat UI. Long-running; required
// configuration must be present in the environment (no interactive prompt).
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
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/styva/vecsearch/internal/config"
	"github.com/styva/vecsearch/internal/domain"
	logpkg "github.com/styva/vecsearch/internal/logger"
	"github.com/styva/vecsearch/internal/metrics"
	"github.com/styva/vecsearch/internal/store/atlas"
	chiTransport "github.com/styva/vecsearch/internal/transport/chi"
	openaiEmb "github.com/styva/vecsearch/internal/transport/openai"
	"github.com/styva/vecsearch/internal/usecase/chat"
	"github.com/styva/vecsearch/internal/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	env := config.Env()
	logger, err := logpkg.New(env, os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	// nil prompter: a long-running server has no terminal to ask on.
	cfg, err := config.Load(nil)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	metrics.RegisterEmbeddingMetrics()

	vcfg := domain.DefaultVectorConfig()
	logger.Info("Starting vector search chatbot",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("database", vcfg.Database),
		zap.String("collection", vcfg.Collection),
	)

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		Endpoint:   cfg.AzureEndpoint,
		Deployment: cfg.AzureDeployment,
		APIVersion: cfg.AzureAPIVersion,
		APIKey:     cfg.AzureAPIKey,
		Dimensions: vcfg.Dimensions,
		Logger:     logger,
	})

	ctx := context.Background()
	store, err := atlas.Connect(ctx, atlas.Config{
		URI:      cfg.MongoURI,
		Vector:   vcfg,
		Embedder: embedder,
	}, logger)
	if err != nil {
		logger.Fatal("connect vector store", zap.Error(err))
	}
	defer func() { _ = store.Close(ctx) }()
	logger.Info("Connected to vector store")

	chatSvc := chat.New(store, logger)
	server := chiTransport.NewServer(chatSvc, store, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())

	r.Get("/", server.HandleIndex)
	r.Post("/api/search", server.HandleSearch)
	r.Get("/healthz", server.HandleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
