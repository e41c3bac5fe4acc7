package domain

// Metric is a vector distance metric understood by Atlas Vector Search.
type Metric string

const (
	// MetricCosine compares vectors by cosine similarity.
	MetricCosine Metric = "cosine"
	// MetricEuclidean compares vectors by euclidean distance.
	MetricEuclidean Metric = "euclidean"
	// MetricDotProduct compares vectors by dot product.
	MetricDotProduct Metric = "dotProduct"
)

// VectorConfig holds the fixed vector store settings shared by every entry
// point. The provisioner, seeder, and chat UI all operate on the same backing
// collection, so these names must stay identical across all three binaries.
type VectorConfig struct {
	Database   string
	Collection string
	IndexName  string
	Dimensions int
	Metric     Metric
}

// DefaultVectorConfig returns the configuration for the demo collection,
// matching text-embedding-ada-002 output (1536 dimensions).
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Database:   "styva-demo",
		Collection: "docs",
		IndexName:  "docs-index-vectorstores",
		Dimensions: 1536,
		Metric:     MetricCosine,
	}
}
