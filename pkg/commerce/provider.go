package commerce

import (
	"context"
	"errors"
)

// Platform identifiers stored on the tenant row.
const (
	PlatformWooCommerce = "woocommerce"
	PlatformShopify     = "shopify"
	PlatformNone        = "none"
)

// ErrProviderUnavailable signals that the tenant has no commerce integration
// configured or the platform could not be reached. The search layer narrows
// to content-only search on this error; it is never surfaced to the end user.
var ErrProviderUnavailable = errors.New("commerce provider unavailable")

// Product is the provider-agnostic catalog record.
type Product struct {
	ID            string  `json:"id"`
	SKU           string  `json:"sku,omitempty"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	URL           string  `json:"url,omitempty"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency,omitempty"`
	InStock       bool    `json:"in_stock"`
	StockQuantity *int    `json:"stock_quantity,omitempty"`
}

// Availability is the result of a live stock check.
type Availability struct {
	InStock  bool `json:"in_stock"`
	Quantity *int `json:"quantity,omitempty"`
}

// Provider defines the contract for a tenant's live store API.
// FindByIdentifier returns (nil, nil) when no product matches.
type Provider interface {
	Platform() string
	SearchProducts(ctx context.Context, query string) ([]Product, error)
	GetProductByIdentifier(ctx context.Context, sku string) (*Product, error)
	CheckStock(ctx context.Context, productID string) (*Availability, error)
}
