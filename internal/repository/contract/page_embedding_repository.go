package contract

import (
	"context"

	"omniops-core/internal/entity"
	"omniops-core/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredPageEmbedding wraps PageEmbedding with its similarity score
// plus the page columns the chat surface needs to cite the source.
type ScoredPageEmbedding struct {
	Embedding  *entity.PageEmbedding
	PageUrl    string
	PageTitle  string
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type PageEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.PageEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.PageEmbedding) error
	Update(ctx context.Context, embedding *entity.PageEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPageId(ctx context.Context, pageId uuid.UUID) error
	DeleteAllByTenantIdUnscoped(ctx context.Context, tenantId uuid.UUID) error // Hard delete embeddings
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PageEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PageEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns embeddings with their similarity scores,
	// scoped to one tenant and filtered by threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, tenantId uuid.UUID, threshold float64) ([]*ScoredPageEmbedding, error)
}
