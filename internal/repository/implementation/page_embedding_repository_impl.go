package implementation

import (
	"context"
	"errors"

	"omniops-core/internal/entity"
	"omniops-core/internal/mapper"
	"omniops-core/internal/model"
	"omniops-core/internal/repository/contract"
	"omniops-core/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PageEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PageEmbeddingMapper
}

func NewPageEmbeddingRepository(db *gorm.DB) contract.PageEmbeddingRepository {
	return &PageEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewPageEmbeddingMapper(),
	}
}

func (r *PageEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PageEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.PageEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *PageEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.PageEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := r.mapper.ToModels(embeddings)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	// Update IDs back to entities
	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PageEmbeddingRepositoryImpl) Update(ctx context.Context, embedding *entity.PageEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *PageEmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PageEmbedding{}, id).Error
}

func (r *PageEmbeddingRepositoryImpl) DeleteByPageId(ctx context.Context, pageId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("page_id = ?", pageId).Delete(&model.PageEmbedding{}).Error
}

func (r *PageEmbeddingRepositoryImpl) DeleteAllByTenantIdUnscoped(ctx context.Context, tenantId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("page_id IN (?)", r.db.Model(&model.Page{}).Select("id").Where("tenant_id = ?", tenantId)).
		Delete(&model.PageEmbedding{}).Error
}

func (r *PageEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PageEmbedding, error) {
	var m model.PageEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PageEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PageEmbedding, error) {
	var models []*model.PageEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PageEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.PageEmbedding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchSimilarWithScore returns embeddings with similarity scores, filtered by threshold
func (r *PageEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, tenantId uuid.UUID, threshold float64) ([]*contract.ScoredPageEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.PageEmbedding
		PageUrl    string
		PageTitle  string
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	// The join with 'pages' enforces tenant isolation.
	err := r.db.WithContext(ctx).
		Table("page_embeddings").
		Select("page_embeddings.*, pages.url as page_url, pages.title as page_title, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN pages ON pages.id = page_embeddings.page_id").
		Where("pages.tenant_id = ?", tenantId).
		Where("page_embeddings.deleted_at IS NULL").
		Where("pages.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scoredEmbeddings := make([]*contract.ScoredPageEmbedding, len(results))
	for i, res := range results {
		scoredEmbeddings[i] = &contract.ScoredPageEmbedding{
			Embedding:  r.mapper.ToEntity(&res.PageEmbedding),
			PageUrl:    res.PageUrl,
			PageTitle:  res.PageTitle,
			Similarity: res.Similarity,
		}
	}
	return scoredEmbeddings, nil
}
