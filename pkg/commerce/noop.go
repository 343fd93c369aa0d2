package commerce

import "context"

// NoopProvider is the "none" variant for tenants without a connected store.
// Every operation fails with ErrProviderUnavailable, which callers must map
// to silent degradation.
type NoopProvider struct{}

var _ Provider = NoopProvider{}

func (NoopProvider) Platform() string {
	return PlatformNone
}

func (NoopProvider) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	return nil, ErrProviderUnavailable
}

func (NoopProvider) GetProductByIdentifier(ctx context.Context, sku string) (*Product, error) {
	return nil, ErrProviderUnavailable
}

func (NoopProvider) CheckStock(ctx context.Context, productID string) (*Availability, error) {
	return nil, ErrProviderUnavailable
}
