package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/styva/vecsearch/internal/domain"
)

// Result count bounds for a single submission.
const (
	MinResults     = 1
	MaxResults     = 10
	DefaultResults = 3
)

// WelcomeMessage seeds a fresh conversation and is what "clear" resets to.
const WelcomeMessage = "👋 Hello! I'm your vector search assistant. Ask me something about the documents in the database!"

const (
	emptyQueryReply = "Please enter a valid search query"
	notFoundReply   = "I couldn't find any relevant information for your query."
)

// Service turns one chat submission into one assistant reply.
type Service struct {
	search Searcher
	logger *zap.Logger
}

// New creates a chat service.
func New(search Searcher, logger *zap.Logger) *Service {
	return &Service{search: search, logger: logger}
}

// Respond produces the assistant reply for a single submission. Blank queries
// are rejected locally with no search call. Search failures become user-facing
// messages rather than errors: a bad query never takes the chat loop down.
func (s *Service) Respond(ctx context.Context, query string, k int) string {
	if strings.TrimSpace(query) == "" {
		return emptyQueryReply
	}

	k = clampResults(k)
	s.logger.Info("searching", zap.String("query", query), zap.Int("k", k))

	results, err := s.search.SimilaritySearch(ctx, query, k)
	if err != nil {
		s.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		return "I encountered an error while searching: " + err.Error()
	}

	if len(results) == 0 {
		return notFoundReply
	}
	return formatResults(results)
}

// clampResults bounds k into [MinResults, MaxResults]; non-positive means
// the client sent nothing usable, so fall back to the default.
func clampResults(k int) int {
	switch {
	case k <= 0:
		return DefaultResults
	case k > MaxResults:
		return MaxResults
	}
	return k
}

// formatResults renders ranked results as content+source pairs.
func formatResults(results []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("Here's what I found:\n\n")
	for _, r := range results {
		fmt.Fprintf(&b, "**Document %d**\n", r.Rank)
		fmt.Fprintf(&b, "**Content:** %s\n", r.Content)
		fmt.Fprintf(&b, "**Source:** %s\n\n", r.Source())
	}
	return strings.TrimSuffix(b.String(), "\n")
}
