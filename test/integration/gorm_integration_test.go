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

func TestGormConnection(t *testing.T) {
	// Load .env from root
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

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.TenantRepository())
	assert.NotNil(t, uow.PageEmbeddingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Tenant Repository", func(t *testing.T) {
		count, err := uow.TenantRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Tenant count: %d", count)
	})

	t.Run("Check Page Embedding Repository", func(t *testing.T) {
		// Count implies table check
		count, err := uow.PageEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("PageEmbedding count: %d", count)
	})

	t.Run("Check Transactional Page Ingest", func(t *testing.T) {
		tenantId := uuid.New()
		tenant := &entity.Tenant{
			Id:        tenantId,
			Name:      "Integration Store",
			Domain:    "integration-" + uuid.New().String() + ".example.com",
			Active:    true,
			CreatedAt: time.Now(),
		}

		err := uow.TenantRepository().Create(context.Background(), tenant)
		assert.NoError(t, err)

		// Transaction Test
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		pageId := uuid.New()
		page := &entity.Page{
			Id:        pageId,
			TenantId:  tenantId,
			Url:       "https://integration.example.com/faq",
			Title:     "FAQ",
			Content:   "How do refunds work? Contact support within 30 days.",
			CreatedAt: time.Now(),
		}

		err = uow.PageRepository().Create(ctx, page)
		assert.NoError(t, err)

		embeddings := []*entity.PageEmbedding{
			{
				Id:             uuid.New(),
				PageId:         pageId,
				ChunkIndex:     0,
				Document:       page.Content,
				EmbeddingValue: make([]float32, 768),
				CreatedAt:      time.Now(),
			},
		}
		err = uow.PageEmbeddingRepository().CreateBulk(ctx, embeddings)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Cleanup outside the committed transaction
		found, err := uow.PageRepository().FindOne(ctx, specification.ByID{ID: pageId})
		assert.NoError(t, err)
		assert.NotNil(t, found)

		assert.NoError(t, uow.PageEmbeddingRepository().DeleteByPageId(ctx, pageId))
		assert.NoError(t, uow.PageRepository().Delete(ctx, pageId))
		assert.NoError(t, uow.TenantRepository().Delete(ctx, tenantId))

		t.Log("Successfully created Page with Embeddings in Transaction")
	})
}
