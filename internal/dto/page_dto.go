package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpsertPageRequest struct {
	Url      string                 `json:"url" validate:"required,url"`
	Title    string                 `json:"title" validate:"required"`
	Content  string                 `json:"content" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

type UpsertPageResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowPageResponse struct {
	Id        uuid.UUID              `json:"id"`
	Url       string                 `json:"url"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt *time.Time             `json:"updated_at"`
}

type SemanticSearchResponse struct {
	PageId     uuid.UUID `json:"page_id"`
	Url        string    `json:"url"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Similarity float64   `json:"similarity"`
}

// PublishEmbedPageMessage is the queue payload that triggers chunking and
// embedding of one page.
type PublishEmbedPageMessage struct {
	PageId uuid.UUID `json:"page_id"`
}
