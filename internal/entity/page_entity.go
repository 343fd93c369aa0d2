package entity

import (
	"time"

	"github.com/google/uuid"
)

type Page struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantId  uuid.UUID `gorm:"type:uuid;index"`
	Url       string
	Title     string
	Content   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// PageEmbedding is one chunk of a page with its vector representation.
type PageEmbedding struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PageId         uuid.UUID `gorm:"type:uuid;index"`
	ChunkIndex     int
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
