package atlas

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/styva/vecsearch/internal/domain"
)

type mockEmbedder struct {
	vec        []float32
	err        error
	embedCalls int
	batchCalls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.embedCalls++
	return domain.EmbeddingResult{Embedding: m.vec}, m.err
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vecs[i] = m.vec
	}
	return domain.BatchEmbeddingResult{Embeddings: vecs}, nil
}

func TestUpsert_CountMismatchBeforeAnyCall(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	s := &Store{embed: embed, logger: zap.NewNop()}

	docs := []domain.Document{
		{Content: "one"},
		{Content: "two"},
	}
	err := s.Upsert(context.Background(), docs, []string{"id-1"})

	if !errors.Is(err, domain.ErrCountMismatch) {
		t.Fatalf("expected ErrCountMismatch, got %v", err)
	}
	if embed.batchCalls != 0 {
		t.Error("embedder must not be called when validation fails")
	}
}

func TestUpsert_EmptyBatchIsNoop(t *testing.T) {
	embed := &mockEmbedder{}
	s := &Store{embed: embed, logger: zap.NewNop()}

	if err := s.Upsert(context.Background(), nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embed.batchCalls != 0 {
		t.Error("embedder must not be called for an empty batch")
	}
}

func TestUpsert_EmbedFailureAborts(t *testing.T) {
	embed := &mockEmbedder{err: errors.New("provider down")}
	s := &Store{embed: embed, logger: zap.NewNop()}

	err := s.Upsert(context.Background(), []domain.Document{{Content: "one"}}, []string{"id-1"})
	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestSimilaritySearch_RejectsInvalidK(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	s := &Store{embed: embed, logger: zap.NewNop()}

	if _, err := s.SimilaritySearch(context.Background(), "query", 0); err == nil {
		t.Fatal("expected error for k=0")
	}
	if embed.embedCalls != 0 {
		t.Error("embedder must not be called when k is invalid")
	}
}

func TestToSearchResults_PreservesOrder(t *testing.T) {
	hits := []searchHit{
		{Content: "best", Metadata: map[string]string{"source": "news"}, Score: 0.95},
		{Content: "second", Metadata: map[string]string{"source": "tweet"}, Score: 0.80},
	}

	results := toSearchResults(hits)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Rank != 1 || results[1].Rank != 2 {
		t.Errorf("ranks not 1-based best-first: %+v", results)
	}
	if results[0].Content != "best" {
		t.Errorf("order not preserved: %+v", results)
	}
	if results[0].Source() != "news" {
		t.Errorf("got source %q, want %q", results[0].Source(), "news")
	}
}

func TestToSearchResults_Empty(t *testing.T) {
	results := toSearchResults(nil)
	if len(results) != 0 {
		t.Fatalf("expected empty results, got %d", len(results))
	}
}

func TestIsDuplicateIndex(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"by name", mongo.CommandError{Name: "IndexAlreadyExists", Message: "Duplicate Index"}, true},
		{"by code", mongo.CommandError{Code: 68, Message: "Duplicate Index"}, true},
		{"other command error", mongo.CommandError{Name: "InvalidOptions", Code: 72}, false},
		{"plain error", errors.New("network down"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isDuplicateIndex(tc.err); got != tc.want {
				t.Errorf("isDuplicateIndex(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
