package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"omniops-core/pkg/commerce"
	"omniops-core/pkg/embedding"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: make([]float32, 768)},
	}, nil
}

type stubVectors struct {
	mu     sync.Mutex
	called bool
	hits   []ContentHit
	err    error
}

func (s *stubVectors) Search(ctx context.Context, vector []float32, tenantID uuid.UUID, topK int, minSimilarity float64) ([]ContentHit, error) {
	s.mu.Lock()
	s.called = true
	s.mu.Unlock()
	return s.hits, s.err
}

func (s *stubVectors) wasCalled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.called
}

type stubCommerce struct {
	mu           sync.Mutex
	searchCalled bool
	lookupCalled bool
	products     []commerce.Product
	byIdentifier *commerce.Product
	err          error
}

func (s *stubCommerce) Platform() string { return commerce.PlatformWooCommerce }

func (s *stubCommerce) SearchProducts(ctx context.Context, query string) ([]commerce.Product, error) {
	s.mu.Lock()
	s.searchCalled = true
	s.mu.Unlock()
	return s.products, s.err
}

func (s *stubCommerce) GetProductByIdentifier(ctx context.Context, sku string) (*commerce.Product, error) {
	s.mu.Lock()
	s.lookupCalled = true
	s.mu.Unlock()
	return s.byIdentifier, s.err
}

func (s *stubCommerce) CheckStock(ctx context.Context, productID string) (*commerce.Availability, error) {
	return nil, nil
}

func newTestOrchestrator(t *testing.T, embedder embedding.EmbeddingProvider, vectors VectorStore) *Orchestrator {
	t.Helper()
	matcher, err := NewRegexMatcher("")
	if err != nil {
		t.Fatalf("NewRegexMatcher failed: %v", err)
	}
	return NewOrchestrator(embedder, vectors, matcher, nopLogger{}, DefaultConfig())
}

func TestSearchRunsBothTiersForProductQueries(t *testing.T) {
	vectors := &stubVectors{
		hits: []ContentHit{
			{PageID: uuid.New(), URL: "https://store.example/widget-guide", Title: "Widget Guide", Excerpt: "how to", Similarity: 0.7},
		},
	}
	provider := &stubCommerce{
		products: []commerce.Product{
			{ID: "1", SKU: "WID-1000", Name: "Widget", Price: 9.99},
		},
	}
	o := newTestOrchestrator(t, &stubEmbedder{}, vectors)

	tenant := Tenant{ID: uuid.New(), Domain: "store.example", Commerce: provider}
	result, err := o.Search(context.Background(), tenant, "do you sell widgets")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if !provider.searchCalled {
		t.Error("commerce tier was not invoked for a product query")
	}
	if !vectors.wasCalled() {
		t.Error("content tier was not invoked alongside the commerce tier")
	}
	if len(result.Items) != 2 {
		t.Fatalf("Items = %d, want 2 (one per tier)", len(result.Items))
	}
}

func TestSearchExactIdentifierOutranksKeywords(t *testing.T) {
	exact := commerce.Product{ID: "1", SKU: "WID-1000", Name: "Widget Pro", Price: 19.99}
	provider := &stubCommerce{
		byIdentifier: &exact,
		products: []commerce.Product{
			exact,
			{ID: "2", SKU: "WID-2000", Name: "Widget Lite", Price: 9.99},
		},
	}
	o := newTestOrchestrator(t, &stubEmbedder{}, &stubVectors{})

	tenant := Tenant{ID: uuid.New(), Domain: "store.example", Commerce: provider}
	result, err := o.Search(context.Background(), tenant, "price of WID-1000")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if !provider.lookupCalled {
		t.Error("exact identifier tier was not invoked for a SKU query")
	}
	if len(result.Items) != 2 {
		t.Fatalf("Items = %d, want 2 (exact hit deduplicated against keyword hit)", len(result.Items))
	}
	top := result.Items[0]
	if top.ID != "WID-1000" || top.Score != 1.0 {
		t.Errorf("top item = (%q, %v), want exact match WID-1000 at score 1.0", top.ID, top.Score)
	}
	if top.Reason != "exact SKU match" {
		t.Errorf("top Reason = %q", top.Reason)
	}
}

func TestSearchDegradesWhenCommerceUnavailable(t *testing.T) {
	vectors := &stubVectors{
		hits: []ContentHit{
			{PageID: uuid.New(), URL: "https://store.example/shipping", Title: "Shipping", Excerpt: "we ship", Similarity: 0.8},
		},
	}
	provider := &stubCommerce{err: commerce.ErrProviderUnavailable}
	o := newTestOrchestrator(t, &stubEmbedder{}, vectors)

	tenant := Tenant{ID: uuid.New(), Domain: "store.example", Commerce: provider}
	result, err := o.Search(context.Background(), tenant, "shipping options")
	if err != nil {
		t.Fatalf("Search should absorb tier failures, got: %v", err)
	}

	if len(result.Items) != 1 {
		t.Fatalf("Items = %d, want 1 content hit", len(result.Items))
	}
	if result.Items[0].Source != SourceContent {
		t.Errorf("Source = %q, want content", result.Items[0].Source)
	}
}

func TestSearchDegradesWhenEmbeddingUnavailable(t *testing.T) {
	provider := &stubCommerce{
		products: []commerce.Product{
			{ID: "1", SKU: "WID-1000", Name: "Widget", Price: 9.99},
		},
	}
	o := newTestOrchestrator(t, &stubEmbedder{err: embedding.ErrUnavailable}, &stubVectors{})

	tenant := Tenant{ID: uuid.New(), Domain: "store.example", Commerce: provider}
	result, err := o.Search(context.Background(), tenant, "widgets")
	if err != nil {
		t.Fatalf("Search should absorb embedding outages, got: %v", err)
	}

	if len(result.Items) != 1 || result.Items[0].Source != SourceCommerce {
		t.Errorf("expected only the commerce hit, got %d items", len(result.Items))
	}
}

func TestSearchWithoutCommerceIsContentOnly(t *testing.T) {
	vectors := &stubVectors{
		hits: []ContentHit{
			{PageID: uuid.New(), URL: "https://store.example/about-us", Title: "About", Excerpt: "we are", Similarity: 0.6},
		},
	}
	o := newTestOrchestrator(t, &stubEmbedder{}, vectors)

	tenant := Tenant{ID: uuid.New(), Domain: "store.example", Commerce: commerce.NoopProvider{}}
	result, err := o.Search(context.Background(), tenant, "who are you")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(result.Items) != 1 || result.Items[0].Source != SourceContent {
		t.Errorf("expected one content hit for a commerce-less tenant, got %d items", len(result.Items))
	}
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	provider := &stubCommerce{}
	o := newTestOrchestrator(t, &stubEmbedder{}, &stubVectors{})

	tenant := Tenant{ID: uuid.New(), Domain: "store.example", Commerce: provider}
	result, err := o.Search(context.Background(), tenant, "something we do not carry")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !result.Empty() {
		t.Errorf("Items = %d, want empty result set", len(result.Items))
	}
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newTestOrchestrator(t, &stubEmbedder{err: context.Canceled}, &stubVectors{})
	tenant := Tenant{ID: uuid.New(), Domain: "store.example", Commerce: &stubCommerce{err: context.Canceled}}

	_, err := o.Search(ctx, tenant, "widgets")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Search with cancelled context = %v, want context.Canceled", err)
	}
}

func TestSearchContentDeduplicatesPages(t *testing.T) {
	pageID := uuid.New()
	vectors := &stubVectors{
		hits: []ContentHit{
			{PageID: pageID, URL: "https://store.example/guide", Title: "Guide", Excerpt: "part one", Similarity: 0.9},
			{PageID: pageID, URL: "https://store.example/guide", Title: "Guide", Excerpt: "part two", Similarity: 0.7},
		},
	}
	o := newTestOrchestrator(t, &stubEmbedder{}, vectors)

	candidates, err := o.SearchContent(context.Background(), uuid.New(), "guide")
	if err != nil {
		t.Fatalf("SearchContent failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("candidates = %d, want 1 (chunks of the same page collapse)", len(candidates))
	}
	if candidates[0].Content.Excerpt != "part one" {
		t.Errorf("kept Excerpt = %q, want the highest-similarity chunk", candidates[0].Content.Excerpt)
	}
}

func TestSearchCatalogScoresAreMonotonic(t *testing.T) {
	provider := &stubCommerce{
		products: []commerce.Product{
			{ID: "1", Name: "First"},
			{ID: "2", Name: "Second"},
			{ID: "3", Name: "Third"},
		},
	}
	o := newTestOrchestrator(t, &stubEmbedder{}, &stubVectors{})

	tenant := Tenant{ID: uuid.New(), Domain: "store.example", Commerce: provider}
	candidates, err := o.searchCatalog(context.Background(), tenant, "anything")
	if err != nil {
		t.Fatalf("searchCatalog failed: %v", err)
	}

	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score >= candidates[i-1].Score {
			t.Errorf("catalog scores not strictly decreasing: [%d]=%v, [%d]=%v",
				i-1, candidates[i-1].Score, i, candidates[i].Score)
		}
	}
	if candidates[0].Score != 1.0 {
		t.Errorf("first catalog Score = %v, want 1.0", candidates[0].Score)
	}
}
