package domain

import "errors"

var (
	// ErrIndexAlreadyExists signals that the vector search index is already provisioned.
	ErrIndexAlreadyExists = errors.New("index already exists")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCountMismatch signals positionally-paired slices of unequal length.
	ErrCountMismatch = errors.New("count mismatch")
	// ErrVectorDimMismatch signals an embedding whose length does not match the index.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
