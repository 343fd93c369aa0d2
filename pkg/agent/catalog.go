package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"omniops-core/pkg/commerce"
	"omniops-core/pkg/llm"
	"omniops-core/pkg/search"
)

// TenantCapabilities is the explicit, per-request capability snapshot the
// tool catalog is computed from. It is derived from the tenant row at the
// start of each turn; the catalog never reads ambient or global state.
type TenantCapabilities struct {
	TenantID         uuid.UUID
	Domain           string
	CommercePlatform string
	HasContentIndex  bool
}

func (c TenantCapabilities) CommerceConnected() bool {
	return c.CommercePlatform != "" && c.CommercePlatform != commerce.PlatformNone
}

// Backends holds the retrieval components tool handlers close over.
type Backends struct {
	Orchestrator *search.Orchestrator
	Commerce     commerce.Provider
}

// Tool names.
const (
	ToolSearchStore       = "search_store"
	ToolSearchContent     = "search_content"
	ToolGetProductDetails = "get_product_details"
	ToolCheckStock        = "check_stock"
)

// BuildToolCatalog computes the tool catalog for one request.
//
// Tool descriptions are authored together as a single source of truth: none
// may instruct the model to avoid another tool, because the hybrid search
// contract depends on complementary use. The search_store tool itself fans
// out to both the live catalog and the content index, so parallel retrieval
// for product queries is guaranteed structurally rather than left to the
// model's tool-picking behavior.
func BuildToolCatalog(caps TenantCapabilities, backends Backends) []ToolDefinition {
	var catalog []ToolDefinition

	catalog = append(catalog, ToolDefinition{
		Name: ToolSearchStore,
		Description: "Search the store for products. Combines the live product catalog " +
			"(prices, stock, SKUs) with the store's website content in one search. " +
			"Use for any question about products, prices, availability, or part numbers.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Product keywords, a product name, or a SKU / part number.",
				},
			},
			"required": []string{"query"},
		},
		Handler: searchStoreHandler(caps, backends),
	})

	if caps.HasContentIndex {
		catalog = append(catalog, ToolDefinition{
			Name: ToolSearchContent,
			Description: "Search the store's website pages for policies, shipping and returns " +
				"information, FAQs, guides, and other general information.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "What to look for in the website content.",
					},
				},
				"required": []string{"query"},
			},
			Handler: searchContentHandler(caps, backends),
		})
	}

	if caps.CommerceConnected() {
		catalog = append(catalog, ToolDefinition{
			Name: ToolGetProductDetails,
			Description: "Fetch full live details for one product by its SKU or part number: " +
				"price, description, stock status, and product page URL.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"sku": map[string]interface{}{
						"type":        "string",
						"description": "The product SKU or part number.",
					},
				},
				"required": []string{"sku"},
			},
			Handler: productDetailsHandler(backends),
		})

		catalog = append(catalog, ToolDefinition{
			Name:        ToolCheckStock,
			Description: "Check current stock availability for one product by its product id.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"product_id": map[string]interface{}{
						"type":        "string",
						"description": "The product id from an earlier search result.",
					},
				},
				"required": []string{"product_id"},
			},
			Handler: checkStockHandler(backends),
		})
	}

	return catalog
}

// Specs converts a catalog to the provider-facing tool list.
func Specs(catalog []ToolDefinition) []llm.ToolSpec {
	specs := make([]llm.ToolSpec, len(catalog))
	for i, def := range catalog {
		specs[i] = llm.ToolSpec{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.Parameters,
		}
	}
	return specs
}

// --- Handlers ---

type queryArgs struct {
	Query string `json:"query"`
}

type searchStoreOutput struct {
	Results   []search.Candidate `json:"results"`
	Total     int                `json:"total"`
	NoResults bool               `json:"no_results"`
	Message   string             `json:"message,omitempty"`
}

func searchStoreHandler(caps TenantCapabilities, backends Backends) ToolHandler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args queryArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		if args.Query == "" {
			return "", errors.New("query is required")
		}

		tenant := search.Tenant{
			ID:       caps.TenantID,
			Domain:   caps.Domain,
			Commerce: backends.Commerce,
		}
		resultSet, err := backends.Orchestrator.Search(ctx, tenant, args.Query)
		if err != nil {
			return "", err
		}

		output := searchStoreOutput{
			Results: resultSet.Items,
			Total:   len(resultSet.Items),
		}
		if resultSet.Empty() {
			output.NoResults = true
			output.Message = "No matching products or content were found for this query."
		}
		return marshalOutput(output)
	}
}

func searchContentHandler(caps TenantCapabilities, backends Backends) ToolHandler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args queryArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		if args.Query == "" {
			return "", errors.New("query is required")
		}

		candidates, err := backends.Orchestrator.SearchContent(ctx, caps.TenantID, args.Query)
		if err != nil {
			return "", err
		}

		output := searchStoreOutput{
			Results: candidates,
			Total:   len(candidates),
		}
		if len(candidates) == 0 {
			output.NoResults = true
			output.Message = "No matching website content was found for this query."
		}
		return marshalOutput(output)
	}
}

type skuArgs struct {
	SKU string `json:"sku"`
}

func productDetailsHandler(backends Backends) ToolHandler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args skuArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		if args.SKU == "" {
			return "", errors.New("sku is required")
		}

		product, err := backends.Commerce.GetProductByIdentifier(ctx, args.SKU)
		if err != nil {
			return "", err
		}
		if product == nil {
			return marshalOutput(map[string]interface{}{
				"found":   false,
				"message": fmt.Sprintf("No product found for identifier %q.", args.SKU),
			})
		}
		return marshalOutput(map[string]interface{}{
			"found":   true,
			"product": product,
		})
	}
}

type stockArgs struct {
	ProductID string `json:"product_id"`
}

func checkStockHandler(backends Backends) ToolHandler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args stockArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		if args.ProductID == "" {
			return "", errors.New("product_id is required")
		}

		availability, err := backends.Commerce.CheckStock(ctx, args.ProductID)
		if err != nil {
			return "", err
		}
		if availability == nil {
			return marshalOutput(map[string]interface{}{
				"found":   false,
				"message": fmt.Sprintf("No product found for id %q.", args.ProductID),
			})
		}
		return marshalOutput(map[string]interface{}{
			"found":        true,
			"availability": availability,
		})
	}
}

func marshalOutput(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal tool output: %w", err)
	}
	return string(data), nil
}
