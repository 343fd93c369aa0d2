package factory

import (
	"fmt"
	"strings"

	"omniops-core/pkg/commerce"
	"omniops-core/pkg/commerce/shopify"
	"omniops-core/pkg/commerce/woocommerce"
)

// NewProvider builds the commerce adapter for one tenant's credentials.
// An empty platform yields the noop provider, not an error.
func NewProvider(platform, baseURL, key, secret string) (commerce.Provider, error) {
	switch strings.ToLower(platform) {
	case commerce.PlatformWooCommerce:
		return woocommerce.NewClient(baseURL, key, secret), nil
	case commerce.PlatformShopify:
		return shopify.NewClient(baseURL, secret), nil
	case commerce.PlatformNone, "":
		return commerce.NoopProvider{}, nil
	default:
		return nil, fmt.Errorf("unsupported commerce platform: %s", platform)
	}
}
