package atlas

// storedDoc is the BSON shape written to the collection.
type storedDoc struct {
	ID        string            `bson:"_id"`
	Content   string            `bson:"content"`
	Metadata  map[string]string `bson:"metadata,omitempty"`
	Embedding []float32         `bson:"embedding"`
}

// searchHit is the projection returned by the $vectorSearch pipeline.
type searchHit struct {
	Content  string            `bson:"content"`
	Metadata map[string]string `bson:"metadata"`
	Score    float64           `bson:"score"`
}
