package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTenantRequest struct {
	Name             string `json:"name" validate:"required"`
	Domain           string `json:"domain" validate:"required,fqdn"`
	CommercePlatform string `json:"commerce_platform" validate:"omitempty,oneof=woocommerce shopify"`
	CommerceBaseUrl  string `json:"commerce_base_url" validate:"omitempty,url"`
	CommerceKey      string `json:"commerce_key"`
	CommerceSecret   string `json:"commerce_secret"`
}

type CreateTenantResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateTenantRequest struct {
	Id               uuid.UUID
	Name             string `json:"name" validate:"required"`
	CommercePlatform string `json:"commerce_platform" validate:"omitempty,oneof=woocommerce shopify"`
	CommerceBaseUrl  string `json:"commerce_base_url" validate:"omitempty,url"`
	CommerceKey      string `json:"commerce_key"`
	CommerceSecret   string `json:"commerce_secret"`
	Active           bool   `json:"active"`
}

type ShowTenantResponse struct {
	Id               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Domain           string     `json:"domain"`
	CommercePlatform string     `json:"commerce_platform,omitempty"`
	CommerceBaseUrl  string     `json:"commerce_base_url,omitempty"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}
