package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"omniops-core/internal/entity"
	"omniops-core/internal/repository/specification"
	"omniops-core/internal/repository/unitofwork"
	"omniops-core/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func newTestUnitOfWork(t *testing.T) unitofwork.UnitOfWork {
	t.Helper()

	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uow := unitofwork.NewRepositoryFactory(gormDB).NewUnitOfWork(context.Background())
	if err := uow.Begin(context.Background()); err != nil {
		t.Fatalf("Failed to begin tx: %v", err)
	}
	t.Cleanup(func() {
		_ = uow.Rollback()
	})
	return uow
}

// A session title is set from the first visitor message while the service
// may only hold a partial session snapshot. The title write must not touch
// any other column, created_at in particular.
func TestUpdateTitleKeepsCreatedAt(t *testing.T) {
	uow := newTestUnitOfWork(t)
	ctx := context.Background()

	created := time.Now().Add(-time.Hour).Truncate(time.Second)
	session := entity.ChatSession{
		Id:        uuid.New(),
		TenantId:  uuid.New(),
		VisitorId: "visitor-1",
		Title:     "New conversation",
		CreatedAt: created,
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	err := uow.ChatSessionRepository().UpdateTitle(ctx, session.Id, "do you have the WID-1000 in stock")
	assert.NoError(t, err)

	got, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "do you have the WID-1000 in stock", got.Title)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, created.Unix(), got.CreatedAt.Unix())
}

// Both messages of a turn share one timestamp; the role tiebreaker must
// still reconstruct user-before-assistant regardless of insertion order.
func TestChatHistoryOrderOnSharedTimestamp(t *testing.T) {
	uow := newTestUnitOfWork(t)
	ctx := context.Background()

	sessionId := uuid.New()
	ts := time.Now().Truncate(time.Second)

	reply := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          "We have 4 in stock.",
		Role:          "assistant",
		ChatSessionId: sessionId,
		CreatedAt:     ts,
	}
	question := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          "Is the widget in stock?",
		Role:          "user",
		ChatSessionId: sessionId,
		CreatedAt:     ts,
	}

	// Assistant first on purpose: insertion order must not matter.
	if err := uow.ChatMessageRepository().Create(ctx, &reply); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := uow.ChatMessageRepository().Create(ctx, &question); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.OrderBy{Field: "role", Desc: true},
	)
	assert.NoError(t, err)
	if assert.Len(t, messages, 2) {
		assert.Equal(t, "user", messages[0].Role)
		assert.Equal(t, "assistant", messages[1].Role)
	}
}
