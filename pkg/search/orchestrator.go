package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"omniops-core/internal/pkg/logger"
	"omniops-core/pkg/commerce"
	"omniops-core/pkg/embedding"
)

// Config encapsulates search tuning parameters. Thresholds and caps were
// tuned empirically; they are configuration, not constants.
type Config struct {
	MinSimilarity float64
	TopK          int
	MaxResults    int
	SKUPattern    string
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		MinSimilarity: 0.2,
		TopK:          10,
		MaxResults:    15,
		SKUPattern:    DefaultSKUPattern,
	}
}

// Tenant carries the per-request tenant scope: data isolation id plus the
// tenant's commerce integration (NoopProvider or nil when not connected).
type Tenant struct {
	ID       uuid.UUID
	Domain   string
	Commerce commerce.Provider
}

func (t Tenant) commerceEnabled() bool {
	return t.Commerce != nil && t.Commerce.Platform() != commerce.PlatformNone
}

// Orchestrator runs the tiered retrieval strategy: exact identifier lookup,
// catalog keyword search, and semantic content search. For product queries
// the commerce and content tiers always run concurrently; they complement
// each other (live structured data vs contextual page content) and are never
// treated as substitutes.
type Orchestrator struct {
	embedder     embedding.EmbeddingProvider
	vectors      VectorStore
	matcher      IdentifierMatcher
	consolidator *Consolidator
	logger       logger.ILogger
	cfg          Config
}

func NewOrchestrator(
	embedder embedding.EmbeddingProvider,
	vectors VectorStore,
	matcher IdentifierMatcher,
	log logger.ILogger,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		embedder:     embedder,
		vectors:      vectors,
		matcher:      matcher,
		consolidator: NewConsolidator(cfg.MaxResults),
		logger:       log,
		cfg:          cfg,
	}
}

type tierOutcome struct {
	source Source
	exact  bool
	items  []Candidate
	err    error
}

// Search runs the hybrid product search: all applicable tiers fan out
// concurrently and their results are consolidated into one ranked set.
// Tier failures narrow the strategy silently; Search only errors on a
// cancelled context.
func (o *Orchestrator) Search(ctx context.Context, tenant Tenant, query string) (ResultSet, error) {
	results := make(chan tierOutcome, 3)
	launched := 0

	if sku, ok := o.matcher.Match(query); ok && tenant.commerceEnabled() {
		launched++
		go func() {
			items, err := o.lookupIdentifier(ctx, tenant, sku)
			results <- tierOutcome{source: SourceCommerce, exact: true, items: items, err: err}
		}()
	}

	if tenant.commerceEnabled() {
		launched++
		go func() {
			items, err := o.searchCatalog(ctx, tenant, query)
			results <- tierOutcome{source: SourceCommerce, items: items, err: err}
		}()
	}

	// The semantic tier always runs: scraped page content complements live
	// catalog data even when the catalog answers.
	launched++
	go func() {
		items, err := o.SearchContent(ctx, tenant.ID, query)
		results <- tierOutcome{source: SourceContent, items: items, err: err}
	}()

	var exactCands, keywordCands, contentCands []Candidate
	for i := 0; i < launched; i++ {
		outcome := <-results
		if outcome.err != nil {
			o.logTierFailure(outcome)
			continue
		}
		switch {
		case outcome.exact:
			exactCands = outcome.items
		case outcome.source == SourceCommerce:
			keywordCands = outcome.items
		default:
			contentCands = outcome.items
		}
	}

	if err := ctx.Err(); err != nil {
		return ResultSet{}, err
	}

	// Exact identifier hits outrank keyword hits for the same product.
	commerceCands := append(exactCands, dropKnownProducts(exactCands, keywordCands)...)

	return o.consolidator.Consolidate(commerceCands, contentCands), nil
}

// SearchContent embeds the query and performs tenant-scoped nearest-neighbor
// lookup. An unavailable embedding service degrades to an empty result with
// a logged warning; the commerce path may still succeed.
func (o *Orchestrator) SearchContent(ctx context.Context, tenantID uuid.UUID, query string) ([]Candidate, error) {
	embeddingRes, err := o.embedder.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		if errors.Is(err, embedding.ErrUnavailable) {
			o.logger.Warn("search", "embedding service unavailable, skipping content tier", map[string]interface{}{
				"tenant_id": tenantID.String(),
				"error":     err.Error(),
			})
			return nil, nil
		}
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	hits, err := o.vectors.Search(ctx, embeddingRes.Embedding.Values, tenantID, o.cfg.TopK, o.cfg.MinSimilarity)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	candidates := make([]Candidate, 0, len(hits))
	seen := make(map[string]bool)
	for _, hit := range hits {
		pageID := hit.PageID.String()
		if seen[pageID] {
			continue
		}
		seen[pageID] = true

		id := urlSlug(hit.URL)
		if id == "" {
			id = pageID
		}
		candidates = append(candidates, Candidate{
			ID:     id,
			Source: SourceContent,
			Title:  hit.Title,
			Score:  clamp01(hit.Similarity),
			Content: &ContentChunk{
				PageID:     pageID,
				URL:        hit.URL,
				Title:      hit.Title,
				Excerpt:    hit.Excerpt,
				Similarity: hit.Similarity,
			},
		})
	}

	return candidates, nil
}

func (o *Orchestrator) lookupIdentifier(ctx context.Context, tenant Tenant, sku string) ([]Candidate, error) {
	product, err := tenant.Commerce.GetProductByIdentifier(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return []Candidate{productCandidate(*product, 1.0, "exact SKU match")}, nil
}

func (o *Orchestrator) searchCatalog(ctx context.Context, tenant Tenant, query string) ([]Candidate, error) {
	products, err := tenant.Commerce.SearchProducts(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(products))
	for i, product := range products {
		// Monotonic rank-to-score mapping into (0.5, 1.0]; the catalog's own
		// ordering is its only relevance signal.
		score := 1.0 - 0.5*float64(i)/float64(len(products))
		candidates = append(candidates, productCandidate(product, score, ""))
	}
	return candidates, nil
}

func (o *Orchestrator) logTierFailure(outcome tierOutcome) {
	details := map[string]interface{}{
		"source": string(outcome.source),
		"error":  outcome.err.Error(),
	}
	if errors.Is(outcome.err, commerce.ErrProviderUnavailable) {
		// Unconfigured or unreachable store narrows the strategy silently.
		o.logger.Debug("search", "commerce tier unavailable, degrading to content search", details)
		return
	}
	o.logger.Warn("search", "retrieval tier failed", details)
}

func productCandidate(p commerce.Product, score float64, reason string) Candidate {
	id := p.SKU
	if id == "" {
		id = p.ID
	}
	return Candidate{
		ID:      id,
		Source:  SourceCommerce,
		Title:   p.Name,
		Score:   clamp01(score),
		Reason:  reason,
		Product: &p,
	}
}

// dropKnownProducts filters keyword hits whose product already appeared in
// the exact-match tier.
func dropKnownProducts(known, candidates []Candidate) []Candidate {
	if len(known) == 0 {
		return candidates
	}
	seen := make(map[string]bool, len(known))
	for _, c := range known {
		if c.Product != nil {
			seen[c.Product.ID] = true
		}
	}

	filtered := candidates[:0:0]
	for _, c := range candidates {
		if c.Product != nil && seen[c.Product.ID] {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
