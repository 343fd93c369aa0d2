package memory

import (
	"testing"
	"time"

	"omniops-core/pkg/store"
)

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionRepository()

	created := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	repo.Save(&store.Session{
		ID:        "session-1",
		TenantID:  "tenant-1",
		VisitorID: "visitor-1",
		Title:     "where is my order",
		CreatedAt: created,
		LastQuery: "where is my order",
		Turns:     1,
	})

	got, found := repo.Get("session-1")
	if !found {
		t.Fatal("Get() not found, want hit")
	}
	if got.Title != "where is my order" {
		t.Errorf("Title = %q, want %q", got.Title, "where is my order")
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if got.VisitorID != "visitor-1" {
		t.Errorf("VisitorID = %q, want %q", got.VisitorID, "visitor-1")
	}
}

func TestSessionRepositoryMiss(t *testing.T) {
	repo := NewSessionRepository()

	if _, found := repo.Get("unknown"); found {
		t.Error("Get() found = true, want miss")
	}
}

func TestSessionRepositoryDelete(t *testing.T) {
	repo := NewSessionRepository()

	repo.Save(&store.Session{ID: "session-1", TenantID: "tenant-1"})
	repo.Delete("session-1")

	if _, found := repo.Get("session-1"); found {
		t.Error("Get() found = true after Delete, want miss")
	}
}
