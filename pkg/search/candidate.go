package search

import (
	"context"

	"github.com/google/uuid"

	"omniops-core/pkg/commerce"
)

// Source tags where a candidate was retrieved from.
type Source string

const (
	SourceCommerce Source = "commerce"
	SourceContent  Source = "content"
)

// ContentChunk is the content-side payload of a candidate: a scraped page
// excerpt retrieved by vector similarity.
type ContentChunk struct {
	PageID     string  `json:"page_id"`
	URL        string  `json:"url"`
	Title      string  `json:"title"`
	Excerpt    string  `json:"excerpt"`
	Similarity float64 `json:"similarity"`
}

// Candidate is a single retrieved item from either source. Score is always
// normalized to [0,1] so commerce and content candidates stay comparable.
// A merged candidate carries both payloads.
type Candidate struct {
	ID      string            `json:"id"` // stable identity key: SKU, product id, or URL slug
	Source  Source            `json:"source"`
	Title   string            `json:"title"`
	Score   float64           `json:"score"`
	Reason  string            `json:"reason,omitempty"`
	Product *commerce.Product `json:"product,omitempty"`
	Content *ContentChunk     `json:"content,omitempty"`
}

// ResultSet is the consolidated, ranked, deduplicated output of a search.
// An empty set is a valid outcome distinct from an error.
type ResultSet struct {
	Items []Candidate `json:"items"`
}

func (r ResultSet) Empty() bool {
	return len(r.Items) == 0
}

// ContentHit is a raw vector-store match before normalization into a Candidate.
type ContentHit struct {
	PageID     uuid.UUID
	URL        string
	Title      string
	Excerpt    string
	Similarity float64
}

// VectorStore performs approximate nearest-neighbor lookup over previously
// embedded page content, scoped by tenant. An empty list is a valid response.
type VectorStore interface {
	Search(ctx context.Context, vector []float32, tenantID uuid.UUID, topK int, minSimilarity float64) ([]ContentHit, error)
}
