package domain

// Document is a text document with source metadata, as stored in the collection.
// Immutable once constructed; its external identity is the id assigned at seed time.
type Document struct {
	Content  string
	Metadata map[string]string
}

// SearchResult is a single similarity search hit. Results arrive already
// ranked best-first by the vector store; Rank is 1-based in that order.
type SearchResult struct {
	Content  string
	Metadata map[string]string
	Rank     int
	Score    float64
}

// Source returns the "source" metadata value, or "Unknown" when absent.
func (r SearchResult) Source() string {
	if src := r.Metadata["source"]; src != "" {
		return src
	}
	return "Unknown"
}
