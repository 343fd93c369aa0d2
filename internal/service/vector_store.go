package service

import (
	"context"

	"omniops-core/internal/repository/unitofwork"
	"omniops-core/pkg/search"
	"omniops-core/pkg/utils"

	"github.com/google/uuid"
)

// vectorStoreAdapter exposes the pgvector-backed page embedding table
// through the search.VectorStore port.
type vectorStoreAdapter struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewVectorStore(uowFactory unitofwork.RepositoryFactory) search.VectorStore {
	return &vectorStoreAdapter{uowFactory: uowFactory}
}

func (a *vectorStoreAdapter) Search(ctx context.Context, vector []float32, tenantID uuid.UUID, topK int, minSimilarity float64) ([]search.ContentHit, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.PageEmbeddingRepository().SearchSimilarWithScore(ctx, vector, topK, tenantID, minSimilarity)
	if err != nil {
		return nil, err
	}

	hits := make([]search.ContentHit, len(scored))
	for i, s := range scored {
		hits[i] = search.ContentHit{
			PageID:     s.Embedding.PageId,
			URL:        s.PageUrl,
			Title:      s.PageTitle,
			Excerpt:    utils.Truncate(s.Embedding.Document, 280),
			Similarity: s.Similarity,
		}
	}
	return hits, nil
}
