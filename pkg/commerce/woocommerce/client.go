package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"omniops-core/pkg/commerce"
)

// Client talks to the WooCommerce REST API (wc/v3) of a single tenant store.
// Credentials come from the tenant row, never from ambient configuration.
type Client struct {
	BaseURL        string // e.g. https://shop.example.com
	ConsumerKey    string
	ConsumerSecret string
	HTTPClient     *http.Client
}

var _ commerce.Provider = &Client{}

func NewClient(baseURL, consumerKey, consumerSecret string) *Client {
	return &Client{
		BaseURL:        baseURL,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		HTTPClient: &http.Client{
			Timeout: 25 * time.Second,
		},
	}
}

func (c *Client) Platform() string {
	return commerce.PlatformWooCommerce
}

// --- Wire structs (internal to this package) ---

type wooProduct struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Permalink     string `json:"permalink"`
	Price         string `json:"price"`
	ShortDesc     string `json:"short_description"`
	StockStatus   string `json:"stock_status"`
	StockQuantity *int   `json:"stock_quantity"`
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]commerce.Product, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("per_page", "20")
	params.Set("status", "publish")

	products, err := c.listProducts(ctx, params)
	if err != nil {
		return nil, err
	}

	result := make([]commerce.Product, 0, len(products))
	for _, p := range products {
		result = append(result, toProduct(p))
	}
	return result, nil
}

func (c *Client) GetProductByIdentifier(ctx context.Context, sku string) (*commerce.Product, error) {
	params := url.Values{}
	params.Set("sku", sku)

	products, err := c.listProducts(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}

	product := toProduct(products[0])
	return &product, nil
}

func (c *Client) CheckStock(ctx context.Context, productID string) (*commerce.Availability, error) {
	endpoint := fmt.Sprintf("%s/wp-json/wc/v3/products/%s", c.BaseURL, url.PathEscape(productID))

	body, status, err := c.do(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: woocommerce status %d", commerce.ErrProviderUnavailable, status)
	}

	var p wooProduct
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}

	return &commerce.Availability{
		InStock:  p.StockStatus == "instock",
		Quantity: p.StockQuantity,
	}, nil
}

func (c *Client) listProducts(ctx context.Context, params url.Values) ([]wooProduct, error) {
	endpoint := fmt.Sprintf("%s/wp-json/wc/v3/products", c.BaseURL)

	body, status, err := c.do(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: woocommerce status %d: %s", commerce.ErrProviderUnavailable, status, string(body))
	}

	var products []wooProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products: %w", err)
	}
	return products, nil
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) ([]byte, int, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("consumer_key", c.ConsumerKey)
	params.Set("consumer_secret", c.ConsumerSecret)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
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

func toProduct(p wooProduct) commerce.Product {
	price, _ := strconv.ParseFloat(p.Price, 64)
	return commerce.Product{
		ID:            strconv.Itoa(p.ID),
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.ShortDesc,
		URL:           p.Permalink,
		Price:         price,
		InStock:       p.StockStatus == "instock",
		StockQuantity: p.StockQuantity,
	}
}
