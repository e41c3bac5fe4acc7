// Command createindex provisions the Atlas vector search index on the shared
// demo collection. One-shot, no flags; exit code 1 on any failure.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/styva/vecsearch/internal/config"
	"github.com/styva/vecsearch/internal/domain"
	"github.com/styva/vecsearch/internal/logger"
	"github.com/styva/vecsearch/internal/metrics"
	"github.com/styva/vecsearch/internal/store/atlas"
	openaiEmb "github.com/styva/vecsearch/internal/transport/openai"
	"github.com/styva/vecsearch/internal/version"
)

func main() {
	_ = godotenv.Load()

	env := config.Env()
	log, err := logger.New(env, os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(config.StdinPrompter)
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	metrics.RegisterEmbeddingMetrics()

	vcfg := domain.DefaultVectorConfig()
	log.Info("Provisioning vector search index",
		zap.String("version", version.Version),
		zap.String("database", vcfg.Database),
		zap.String("collection", vcfg.Collection),
		zap.String("index", vcfg.IndexName),
		zap.Int("dimensions", vcfg.Dimensions),
	)

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		Endpoint:   cfg.AzureEndpoint,
		Deployment: cfg.AzureDeployment,
		APIVersion: cfg.AzureAPIVersion,
		APIKey:     cfg.AzureAPIKey,
		Dimensions: vcfg.Dimensions,
		Logger:     log,
	})

	ctx := context.Background()
	store, err := atlas.Connect(ctx, atlas.Config{
		URI:      cfg.MongoURI,
		Vector:   vcfg,
		Embedder: embedder,
	}, log)
	if err != nil {
		log.Fatal("connect vector store", zap.Error(err))
	}
	defer func() { _ = store.Close(ctx) }()

	if err := store.CreateIndex(ctx, vcfg.Dimensions, vcfg.Metric); err != nil {
		if errors.Is(err, domain.ErrIndexAlreadyExists) {
			// Provisioning is idempotent in intent: a second run is not a defect.
			log.Warn("index already provisioned", zap.String("index", vcfg.IndexName))
			return
		}
		log.Fatal("create index", zap.Error(err))
	}

	log.Info("Index provisioning requested; Atlas builds it asynchronously")
}
