// Package seed holds the fixed demo corpus upserted by cmd/seed.
package seed

import (
	"github.com/google/uuid"

	"github.com/styva/vecsearch/internal/domain"
)

// Documents returns the fixed demo document set. The content is stable so the
// smoke-test query in cmd/seed keeps returning the weather forecast first.
func Documents() []domain.Document {
	return []domain.Document{
		{
			Content:  "I had chocalate chip pancakes and scrambled eggs for breakfast this morning.",
			Metadata: map[string]string{"source": "tweet"},
		},
		{
			Content:  "The weather forecast for tomorrow is cloudy and overcast, with a high of 62 degrees.",
			Metadata: map[string]string{"source": "news"},
		},
		{
			Content:  "Building an exciting new project with LangChain - come check it out!",
			Metadata: map[string]string{"source": "tweet"},
		},
		{
			Content:  "Robbers broke into the city bank and stole $1 million in cash.",
			Metadata: map[string]string{"source": "news"},
		},
		{
			Content:  "Wow! That was an amazing movie. I can't wait to see it again.",
			Metadata: map[string]string{"source": "tweet"},
		},
		{
			Content:  "Is the new iPhone worth the price? Read this review to find out.",
			Metadata: map[string]string{"source": "website"},
		},
		{
			Content:  "The top 10 soccer players in the world right now.",
			Metadata: map[string]string{"source": "website"},
		},
		{
			Content:  "LangGraph is the best framework for building stateful, agentic applications!",
			Metadata: map[string]string{"source": "tweet"},
		},
		{
			Content:  "The stock market is down 500 points today due to fears of a recession.",
			Metadata: map[string]string{"source": "news"},
		},
		{
			Content:  "I have a bad feeling I am going to get deleted :(",
			Metadata: map[string]string{"source": "tweet"},
		},
	}
}

// NewIDs returns n freshly generated unique document identifiers.
func NewIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return ids
}
