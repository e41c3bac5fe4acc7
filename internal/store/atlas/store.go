// Package atlas wraps a MongoDB Atlas collection with vector search operations:
// index provisioning, embed-and-upsert, and ranked similarity search.
package atlas

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/styva/vecsearch/internal/domain"
)

// BSON field holding the document embedding; referenced by the index
// definition and the $vectorSearch stage, so the two must agree.
const fieldEmbedding = "embedding"

// numCandidates sizing for $vectorSearch. Atlas recommends over-requesting
// candidates relative to the result limit.
const (
	candidateFactor = 20
	minCandidates   = 100
)

// Embedder is the consumer contract for vectorization.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
	EmbedBatch(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// Store is a vector store over a single Atlas collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	embed  Embedder
	index  string
	logger *zap.Logger
}

// Config holds the store settings.
type Config struct {
	URI      string
	Vector   domain.VectorConfig
	Embedder Embedder
}

// Connect creates a store and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Store{
		client: client,
		coll:   client.Database(cfg.Vector.Database).Collection(cfg.Vector.Collection),
		embed:  cfg.Embedder,
		index:  cfg.Vector.IndexName,
		logger: logger,
	}, nil
}

// Close releases the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping verifies the backing cluster is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// CreateIndex requests an Atlas vector search index on the collection.
// Provisioning is asynchronous on the Atlas side; this call only submits the
// definition. A duplicate request maps to domain.ErrIndexAlreadyExists.
func (s *Store) CreateIndex(ctx context.Context, dimensions int, metric domain.Metric) error {
	definition := bson.D{{Key: "fields", Value: bson.A{
		bson.D{
			{Key: "type", Value: "vector"},
			{Key: "path", Value: fieldEmbedding},
			{Key: "numDimensions", Value: dimensions},
			{Key: "similarity", Value: string(metric)},
		},
	}}}

	model := mongo.SearchIndexModel{
		Definition: definition,
		Options:    options.SearchIndexes().SetName(s.index).SetType("vectorSearch"),
	}

	name, err := s.coll.SearchIndexes().CreateOne(ctx, model)
	if err != nil {
		if isDuplicateIndex(err) {
			return fmt.Errorf("index %q: %w", s.index, domain.ErrIndexAlreadyExists)
		}
		return fmt.Errorf("create search index %q: %w", s.index, err)
	}

	s.logger.Info("vector search index requested",
		zap.String("index", name),
		zap.Int("dimensions", dimensions),
		zap.String("metric", string(metric)),
	)
	return nil
}

// Upsert embeds the documents and writes them with their metadata, keyed by
// the positionally-paired ids. Length validation happens before any network
// call; the write is a single bulk operation, so a failure means the caller
// must treat the whole batch as unwritten.
func (s *Store) Upsert(ctx context.Context, docs []domain.Document, ids []string) error {
	if len(docs) != len(ids) {
		return fmt.Errorf("%d documents, %d ids: %w", len(docs), len(ids), domain.ErrCountMismatch)
	}
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}

	batch, err := s.embed.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(batch.Embeddings) != len(docs) {
		return fmt.Errorf("got %d embeddings for %d documents: %w",
			len(batch.Embeddings), len(docs), domain.ErrCountMismatch)
	}

	models := make([]mongo.WriteModel, len(docs))
	for i, d := range docs {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: ids[i]}}).
			SetReplacement(storedDoc{
				ID:        ids[i],
				Content:   d.Content,
				Metadata:  d.Metadata,
				Embedding: batch.Embeddings[i],
			}).
			SetUpsert(true)
	}

	if _, err := s.coll.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("bulk upsert %d documents: %w", len(docs), err)
	}

	s.logger.Info("documents upserted",
		zap.Int("count", len(docs)),
		zap.Int("embedding_tokens", batch.TotalTokens),
	)
	return nil
}

// SimilaritySearch embeds the query and returns up to k documents ranked
// best-first by the Atlas vector index. An empty collection or no relevant
// match yields an empty slice, not an error.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	numCandidates := k * candidateFactor
	if numCandidates < minCandidates {
		numCandidates = minCandidates
	}

	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: s.index},
			{Key: "path", Value: fieldEmbedding},
			{Key: "queryVector", Value: emb.Embedding},
			{Key: "numCandidates", Value: numCandidates},
			{Key: "limit", Value: k},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "content", Value: 1},
			{Key: "metadata", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	var hits []searchHit
	if err := cursor.All(ctx, &hits); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}

	return toSearchResults(hits), nil
}

// toSearchResults converts pipeline hits to ranked domain results,
// preserving the store's best-first order.
func toSearchResults(hits []searchHit) []domain.SearchResult {
	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = domain.SearchResult{
			Content:  h.Content,
			Metadata: h.Metadata,
			Rank:     i + 1,
			Score:    h.Score,
		}
	}
	return results
}

// isDuplicateIndex reports whether err is Atlas rejecting a duplicate
// search index definition.
func isDuplicateIndex(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Name == "IndexAlreadyExists" || cmdErr.Code == 68
	}
	return false
}
