package mapper

import (
	"encoding/json"
	"time"

	"omniops-core/internal/entity"
	"omniops-core/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PageMapper struct{}

func NewPageMapper() *PageMapper {
	return &PageMapper{}
}

func (m *PageMapper) ToEntity(p *model.Page) *entity.Page {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		dt := p.DeletedAt.Time
		deletedAt = &dt
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		ut := p.UpdatedAt
		updatedAt = &ut
	}

	var metadata map[string]interface{}
	if len(p.Metadata) > 0 {
		// A page with malformed metadata is still usable without it.
		_ = json.Unmarshal(p.Metadata, &metadata)
	}

	return &entity.Page{
		Id:        p.Id,
		TenantId:  p.TenantId,
		Url:       p.Url,
		Title:     p.Title,
		Content:   p.Content,
		Metadata:  metadata,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: p.DeletedAt.Valid,
	}
}

func (m *PageMapper) ToModel(p *entity.Page) *model.Page {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	var metadata datatypes.JSON
	if p.Metadata != nil {
		raw, err := json.Marshal(p.Metadata)
		if err == nil {
			metadata = raw
		}
	}

	return &model.Page{
		Id:        p.Id,
		TenantId:  p.TenantId,
		Url:       p.Url,
		Title:     p.Title,
		Content:   p.Content,
		Metadata:  metadata,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *PageMapper) ToEntities(models []*model.Page) []*entity.Page {
	entities := make([]*entity.Page, len(models))
	for i, p := range models {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
