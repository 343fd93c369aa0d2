package mapper

import (
	"time"

	"omniops-core/internal/entity"
	"omniops-core/internal/model"

	"gorm.io/gorm"
)

type TenantMapper struct{}

func NewTenantMapper() *TenantMapper {
	return &TenantMapper{}
}

func (m *TenantMapper) ToEntity(t *model.Tenant) *entity.Tenant {
	if t == nil {
		return nil
	}

	var deletedAt *time.Time
	if t.DeletedAt.Valid {
		dt := t.DeletedAt.Time
		deletedAt = &dt
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		ut := t.UpdatedAt
		updatedAt = &ut
	}

	return &entity.Tenant{
		Id:               t.Id,
		Name:             t.Name,
		Domain:           t.Domain,
		CommercePlatform: t.CommercePlatform,
		CommerceBaseUrl:  t.CommerceBaseUrl,
		CommerceKey:      t.CommerceKey,
		CommerceSecret:   t.CommerceSecret,
		Active:           t.Active,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        t.DeletedAt.Valid,
	}
}

func (m *TenantMapper) ToModel(t *entity.Tenant) *model.Tenant {
	if t == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if t.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *t.DeletedAt, Valid: true}
	} else if t.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.Tenant{
		Id:               t.Id,
		Name:             t.Name,
		Domain:           t.Domain,
		CommercePlatform: t.CommercePlatform,
		CommerceBaseUrl:  t.CommerceBaseUrl,
		CommerceKey:      t.CommerceKey,
		CommerceSecret:   t.CommerceSecret,
		Active:           t.Active,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

func (m *TenantMapper) ToEntities(models []*model.Tenant) []*entity.Tenant {
	entities := make([]*entity.Tenant, len(models))
	for i, t := range models {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
