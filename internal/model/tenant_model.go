package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tenant struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string         `gorm:"type:text;not null"`
	Domain           string         `gorm:"type:text;not null;uniqueIndex"`
	CommercePlatform string         `gorm:"type:varchar(32);not null;default:''"`
	CommerceBaseUrl  string         `gorm:"type:text;not null;default:''"`
	CommerceKey      string         `gorm:"type:text;not null;default:''"`
	CommerceSecret   string         `gorm:"type:text;not null;default:''"`
	Active           bool           `gorm:"not null;default:true"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Tenant) TableName() string {
	return "tenants"
}
