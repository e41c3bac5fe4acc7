package chat

import (
	"context"

	"github.com/styva/vecsearch/internal/domain"
)

// Searcher runs a ranked similarity search over the document collection.
type Searcher interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}
