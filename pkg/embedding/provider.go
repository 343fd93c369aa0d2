package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable signals that the upstream embedding service could not be
// reached or rejected the request. Callers must treat this as recoverable:
// the semantic search path degrades to empty results, other paths continue.
var ErrUnavailable = errors.New("embedding service unavailable")

// Task types hint the provider how the vector will be used.
const (
	TaskQuery    = "RETRIEVAL_QUERY"
	TaskDocument = "RETRIEVAL_DOCUMENT"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}
