package search

import (
	"fmt"
	"testing"

	"omniops-core/pkg/commerce"
)

func productCand(id, sku, url string, score float64) Candidate {
	return Candidate{
		ID:     sku,
		Source: SourceCommerce,
		Title:  "Product " + id,
		Score:  score,
		Product: &commerce.Product{
			ID:   id,
			SKU:  sku,
			Name: "Product " + id,
			URL:  url,
		},
	}
}

func contentCand(pageID, url string, similarity float64) Candidate {
	id := urlSlug(url)
	if id == "" {
		id = pageID
	}
	return Candidate{
		ID:     id,
		Source: SourceContent,
		Title:  "Page " + pageID,
		Score:  similarity,
		Content: &ContentChunk{
			PageID:     pageID,
			URL:        url,
			Title:      "Page " + pageID,
			Excerpt:    "excerpt",
			Similarity: similarity,
		},
	}
}

func TestConsolidateMergesBySKUInURL(t *testing.T) {
	commerceCands := []Candidate{
		productCand("101", "SKU-1000", "https://store.example/product/sku-1000", 0.7),
	}
	contentCands := []Candidate{
		contentCand("page-1", "https://store.example/product/sku-1000", 0.9),
		contentCand("page-2", "https://store.example/shipping-policy", 0.5),
	}

	result := NewConsolidator(15).Consolidate(commerceCands, contentCands)

	if len(result.Items) != 2 {
		t.Fatalf("Items = %d, want 2 (merged duplicate plus policy page)", len(result.Items))
	}

	merged := result.Items[0]
	if merged.Product == nil || merged.Content == nil {
		t.Error("merged candidate should carry both product and content payloads")
	}
	if merged.Score != 0.9 {
		t.Errorf("merged Score = %v, want max of pair 0.9", merged.Score)
	}
	if merged.Reason != "live product matched with site content" {
		t.Errorf("merged Reason = %q", merged.Reason)
	}
}

func TestConsolidateCommerceFirstOnTie(t *testing.T) {
	commerceCands := []Candidate{
		productCand("101", "SKU-1000", "", 0.8),
	}
	contentCands := []Candidate{
		contentCand("page-1", "https://store.example/faq", 0.8),
	}

	result := NewConsolidator(15).Consolidate(commerceCands, contentCands)

	if len(result.Items) != 2 {
		t.Fatalf("Items = %d, want 2", len(result.Items))
	}
	if result.Items[0].Source != SourceCommerce {
		t.Errorf("tie break: first Source = %q, want commerce", result.Items[0].Source)
	}
}

func TestConsolidateRanksByScore(t *testing.T) {
	commerceCands := []Candidate{
		productCand("101", "SKU-1000", "", 0.4),
		productCand("102", "SKU-2000", "", 0.9),
	}
	contentCands := []Candidate{
		contentCand("page-1", "https://store.example/guides/setup", 0.6),
	}

	result := NewConsolidator(15).Consolidate(commerceCands, contentCands)

	for i := 1; i < len(result.Items); i++ {
		if result.Items[i].Score > result.Items[i-1].Score {
			t.Errorf("Items not sorted by score: [%d]=%v > [%d]=%v",
				i, result.Items[i].Score, i-1, result.Items[i-1].Score)
		}
	}
	if result.Items[0].ID != "SKU-2000" {
		t.Errorf("top item = %q, want SKU-2000", result.Items[0].ID)
	}
}

func TestConsolidateTruncatesToMaxResults(t *testing.T) {
	var commerceCands []Candidate
	for i := 0; i < 10; i++ {
		commerceCands = append(commerceCands,
			productCand(fmt.Sprintf("%d", i), fmt.Sprintf("SKU-%04d", i), "", 0.9-float64(i)*0.05))
	}
	var contentCands []Candidate
	for i := 0; i < 10; i++ {
		contentCands = append(contentCands,
			contentCand(fmt.Sprintf("page-%d", i), fmt.Sprintf("https://store.example/article-%d", i), 0.5-float64(i)*0.02))
	}

	result := NewConsolidator(5).Consolidate(commerceCands, contentCands)

	if len(result.Items) != 5 {
		t.Errorf("Items = %d, want 5", len(result.Items))
	}
}

func TestConsolidateDefaultReasons(t *testing.T) {
	commerceCands := []Candidate{
		productCand("101", "SKU-1000", "", 0.7),
	}
	contentCands := []Candidate{
		contentCand("page-1", "https://store.example/returns", 0.8),
		contentCand("page-2", "https://store.example/warranty", 0.3),
	}

	result := NewConsolidator(15).Consolidate(commerceCands, contentCands)

	reasons := make(map[string]string)
	for _, item := range result.Items {
		reasons[item.ID] = item.Reason
	}

	if reasons["SKU-1000"] != "catalog match" {
		t.Errorf("commerce Reason = %q, want catalog match", reasons["SKU-1000"])
	}
	if reasons["returns"] != "high semantic similarity" {
		t.Errorf("high-similarity content Reason = %q", reasons["returns"])
	}
	if reasons["warranty"] != "related site content (similarity 0.30)" {
		t.Errorf("low-similarity content Reason = %q", reasons["warranty"])
	}
}

func TestConsolidateEmptyInputs(t *testing.T) {
	result := NewConsolidator(15).Consolidate(nil, nil)
	if !result.Empty() {
		t.Error("empty inputs should yield an empty result set")
	}
}

func TestConsolidateDeterministic(t *testing.T) {
	commerceCands := []Candidate{
		productCand("101", "SKU-1000", "https://store.example/product/sku-1000", 0.7),
		productCand("102", "SKU-2000", "", 0.7),
	}
	contentCands := []Candidate{
		contentCand("page-1", "https://store.example/product/sku-1000", 0.7),
		contentCand("page-2", "https://store.example/faq", 0.7),
	}

	first := NewConsolidator(15).Consolidate(commerceCands, contentCands)
	for i := 0; i < 10; i++ {
		again := NewConsolidator(15).Consolidate(commerceCands, contentCands)
		if len(again.Items) != len(first.Items) {
			t.Fatalf("run %d: Items = %d, want %d", i, len(again.Items), len(first.Items))
		}
		for j := range first.Items {
			if again.Items[j].ID != first.Items[j].ID {
				t.Errorf("run %d: Items[%d].ID = %q, want %q", i, j, again.Items[j].ID, first.Items[j].ID)
			}
		}
	}
}

func TestURLSlug(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://store.example/product/blue-widget", "blue-widget"},
		{"https://store.example/product/blue-widget/", "blue-widget"},
		{"https://store.example/p/123", ""}, // short numeric segments are not slugs
		{"", ""},
		{"no-slashes", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := urlSlug(tt.url); got != tt.want {
				t.Errorf("urlSlug(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
