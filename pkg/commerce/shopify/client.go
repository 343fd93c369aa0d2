package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"omniops-core/pkg/commerce"
)

const apiVersion = "2024-01"

// Client talks to the Shopify Admin REST API of a single tenant store.
type Client struct {
	ShopDomain  string // e.g. my-store.myshopify.com
	AccessToken string
	HTTPClient  *http.Client
}

var _ commerce.Provider = &Client{}

func NewClient(shopDomain, accessToken string) *Client {
	return &Client{
		ShopDomain:  shopDomain,
		AccessToken: accessToken,
		HTTPClient: &http.Client{
			Timeout: 25 * time.Second,
		},
	}
}

func (c *Client) Platform() string {
	return commerce.PlatformShopify
}

// --- Wire structs (internal to this package) ---

type shopifyVariant struct {
	ID                int64  `json:"id"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type shopifyProduct struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	BodyHTML string           `json:"body_html"`
	Handle   string           `json:"handle"`
	Status   string           `json:"status"`
	Variants []shopifyVariant `json:"variants"`
}

type shopifyProductList struct {
	Products []shopifyProduct `json:"products"`
}

type shopifyProductEnvelope struct {
	Product shopifyProduct `json:"product"`
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]commerce.Product, error) {
	params := url.Values{}
	params.Set("title", query)
	params.Set("limit", "20")
	params.Set("status", "active")

	body, status, err := c.do(ctx, "/products.json", params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: shopify status %d", commerce.ErrProviderUnavailable, status)
	}

	var list shopifyProductList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("unmarshal products: %w", err)
	}

	result := make([]commerce.Product, 0, len(list.Products))
	for _, p := range list.Products {
		result = append(result, c.toProduct(p))
	}
	return result, nil
}

func (c *Client) GetProductByIdentifier(ctx context.Context, sku string) (*commerce.Product, error) {
	// The Admin REST API has no direct SKU filter; fetch a page of products
	// and match variants client-side.
	params := url.Values{}
	params.Set("limit", "250")
	params.Set("status", "active")
	params.Set("fields", "id,title,body_html,handle,status,variants")

	body, status, err := c.do(ctx, "/products.json", params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: shopify status %d", commerce.ErrProviderUnavailable, status)
	}

	var list shopifyProductList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("unmarshal products: %w", err)
	}

	for _, p := range list.Products {
		for _, v := range p.Variants {
			if strings.EqualFold(v.SKU, sku) {
				product := c.toProduct(p)
				return &product, nil
			}
		}
	}
	return nil, nil
}

func (c *Client) CheckStock(ctx context.Context, productID string) (*commerce.Availability, error) {
	body, status, err := c.do(ctx, "/products/"+url.PathEscape(productID)+".json", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: shopify status %d", commerce.ErrProviderUnavailable, status)
	}

	var envelope shopifyProductEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}

	total := 0
	for _, v := range envelope.Product.Variants {
		total += v.InventoryQuantity
	}
	return &commerce.Availability{
		InStock:  total > 0,
		Quantity: &total,
	}, nil
}

func (c *Client) do(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	endpoint := fmt.Sprintf("https://%s/admin/api/%s%s", c.ShopDomain, apiVersion, path)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", commerce.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read response: %v", commerce.ErrProviderUnavailable, err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) toProduct(p shopifyProduct) commerce.Product {
	product := commerce.Product{
		ID:   strconv.FormatInt(p.ID, 10),
		Name: p.Title,
		URL:  fmt.Sprintf("https://%s/products/%s", c.ShopDomain, p.Handle),
	}
	if len(p.Variants) > 0 {
		v := p.Variants[0]
		product.SKU = v.SKU
		product.Price, _ = strconv.ParseFloat(v.Price, 64)
		qty := 0
		for _, variant := range p.Variants {
			qty += variant.InventoryQuantity
		}
		product.InStock = qty > 0
		product.StockQuantity = &qty
	}
	product.Description = p.BodyHTML
	return product
}
