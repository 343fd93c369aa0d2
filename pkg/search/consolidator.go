package search

import (
	"fmt"
	"sort"
	"strings"
)

// Consolidator merges heterogeneous candidate lists into one ranked,
// deduplicated result set. Consolidation is deterministic: identical inputs
// always produce identical output, independent of tool completion order.
type Consolidator struct {
	MaxResults int
}

func NewConsolidator(maxResults int) *Consolidator {
	if maxResults <= 0 {
		maxResults = 15
	}
	return &Consolidator{MaxResults: maxResults}
}

// Consolidate merges commerce and content candidates. Scores must already be
// normalized to [0,1]. Candidates sharing an identity key collapse into one
// entry carrying both payloads and the max of the two scores.
func (c *Consolidator) Consolidate(commerceCands, contentCands []Candidate) ResultSet {
	merged := make([]Candidate, 0, len(commerceCands)+len(contentCands))
	consumed := make([]bool, len(contentCands))

	for _, cc := range commerceCands {
		entry := cc
		for i, ct := range contentCands {
			if consumed[i] {
				continue
			}
			if identityMatch(cc, ct) {
				consumed[i] = true
				entry.Content = ct.Content
				if ct.Score > entry.Score {
					entry.Score = ct.Score
				}
				entry.Reason = "live product matched with site content"
				break
			}
		}
		merged = append(merged, entry)
	}

	for i, ct := range contentCands {
		if !consumed[i] {
			merged = append(merged, ct)
		}
	}

	// Stable sort keeps the commerce-first construction order on score ties,
	// and original per-source order after that.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > c.MaxResults {
		merged = merged[:c.MaxResults]
	}

	for i := range merged {
		if merged[i].Reason == "" {
			merged[i].Reason = defaultReason(merged[i])
		}
	}

	return ResultSet{Items: merged}
}

// identityMatch compares candidates by stable identity keys only: SKU,
// product id, or URL slug. Fuzzy title matching is deliberately not used.
func identityMatch(commerceCand, contentCand Candidate) bool {
	if contentCand.Content == nil {
		return false
	}
	target := strings.ToLower(contentCand.Content.URL)
	if target == "" {
		target = strings.ToLower(contentCand.ID)
	}

	for _, key := range identityKeys(commerceCand) {
		if key != "" && strings.Contains(target, key) {
			return true
		}
	}
	return false
}

func identityKeys(c Candidate) []string {
	var keys []string
	if c.Product != nil {
		if c.Product.SKU != "" {
			keys = append(keys, strings.ToLower(c.Product.SKU))
		}
		if slug := urlSlug(c.Product.URL); slug != "" {
			keys = append(keys, slug)
		}
	}
	if c.ID != "" {
		keys = append(keys, strings.ToLower(c.ID))
	}
	return keys
}

// urlSlug extracts the last non-empty path segment of a product URL.
func urlSlug(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return ""
	}
	slug := strings.ToLower(trimmed[idx+1:])
	// Bare numeric ids collide too easily to be useful slugs
	if len(slug) < 4 {
		return ""
	}
	return slug
}

func defaultReason(c Candidate) string {
	switch c.Source {
	case SourceCommerce:
		return "catalog match"
	case SourceContent:
		if c.Content != nil && c.Content.Similarity >= 0.6 {
			return "high semantic similarity"
		}
		return fmt.Sprintf("related site content (similarity %.2f)", contentSimilarity(c))
	}
	return ""
}

func contentSimilarity(c Candidate) float64 {
	if c.Content == nil {
		return 0
	}
	return c.Content.Similarity
}
