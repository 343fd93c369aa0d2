package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is a store owner account. Commerce credentials are optional:
// a tenant without a connected platform still gets semantic site search.
type Tenant struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string
	Domain           string
	CommercePlatform string // "woocommerce", "shopify" or "" when not connected
	CommerceBaseUrl  string
	CommerceKey      string
	CommerceSecret   string
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
