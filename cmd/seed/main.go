// Command seed embeds the fixed demo document set, upserts it into the shared
// collection, and runs one smoke-test similarity query. One-shot, no flags;
// any failure after configuration aborts the whole run with exit code 1.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/styva/vecsearch/internal/config"
	"github.com/styva/vecsearch/internal/domain"
	"github.com/styva/vecsearch/internal/logger"
	"github.com/styva/vecsearch/internal/metrics"
	"github.com/styva/vecsearch/internal/seed"
	"github.com/styva/vecsearch/internal/store/atlas"
	openaiEmb "github.com/styva/vecsearch/internal/transport/openai"
	"github.com/styva/vecsearch/internal/version"
)

const smokeQuery = "What's the weather like?"

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
	log.Info("Seeding demo documents",
		zap.String("version", version.Version),
		zap.String("database", vcfg.Database),
		zap.String("collection", vcfg.Collection),
		zap.String("deployment", cfg.AzureDeployment),
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

	// Embedding self-test before touching the store: catches bad credentials
	// and a deployment whose output does not match the index dimensionality.
	test, err := embedder.Embed(ctx, "Test embedding")
	if err != nil {
		log.Fatal("embedding self-test failed", zap.Error(err))
	}
	log.Info("Embedding self-test passed", zap.Int("dimensions", len(test.Embedding)))

	store, err := atlas.Connect(ctx, atlas.Config{
		URI:      cfg.MongoURI,
		Vector:   vcfg,
		Embedder: embedder,
	}, log)
	if err != nil {
		log.Fatal("connect vector store", zap.Error(err))
	}
	defer func() { _ = store.Close(ctx) }()

	docs := seed.Documents()
	ids := seed.NewIDs(len(docs))

	if err := store.Upsert(ctx, docs, ids); err != nil {
		log.Fatal("upsert documents", zap.Error(err))
	}
	log.Info("Documents upserted", zap.Int("count", len(docs)))

	results, err := store.SimilaritySearch(ctx, smokeQuery, 2)
	if err != nil {
		log.Fatal("smoke-test query failed", zap.String("query", smokeQuery), zap.Error(err))
	}
	for _, r := range results {
		log.Info("smoke-test result",
			zap.Int("rank", r.Rank),
			zap.String("content", r.Content),
			zap.String("source", r.Source()),
			zap.String("score", fmt.Sprintf("%.4f", r.Score)),
		)
	}

	log.Info("Seeding completed successfully")
}
