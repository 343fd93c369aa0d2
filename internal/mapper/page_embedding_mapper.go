package mapper

import (
	"time"

	"omniops-core/internal/entity"
	"omniops-core/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PageEmbeddingMapper struct{}

func NewPageEmbeddingMapper() *PageEmbeddingMapper {
	return &PageEmbeddingMapper{}
}

func (m *PageEmbeddingMapper) ToEntity(e *model.PageEmbedding) *entity.PageEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		dt := e.DeletedAt.Time
		deletedAt = &dt
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		ut := e.UpdatedAt
		updatedAt = &ut
	}

	return &entity.PageEmbedding{
		Id:             e.Id,
		PageId:         e.PageId,
		ChunkIndex:     e.ChunkIndex,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *PageEmbeddingMapper) ToModel(e *entity.PageEmbedding) *model.PageEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.PageEmbedding{
		Id:             e.Id,
		PageId:         e.PageId,
		ChunkIndex:     e.ChunkIndex,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *PageEmbeddingMapper) ToEntities(models []*model.PageEmbedding) []*entity.PageEmbedding {
	entities := make([]*entity.PageEmbedding, len(models))
	for i, e := range models {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *PageEmbeddingMapper) ToModels(entities []*entity.PageEmbedding) []*model.PageEmbedding {
	models := make([]*model.PageEmbedding, len(entities))
	for i, e := range entities {
		models[i] = m.ToModel(e)
	}
	return models
}
