package store

import "time"

// Session represents the active widget session state in memory.
// It is a hot cache in front of the durable chat tables, so losing
// it only costs a database round trip.
type Session struct {
	ID        string    `json:"id"` // ChatSessionID
	TenantID  string    `json:"tenant_id"`
	VisitorID string    `json:"visitor_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`

	// Metadata for last interaction
	LastQuery string `json:"last_query"`
	Turns     int    `json:"turns"`
}
