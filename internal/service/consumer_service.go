package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"omniops-core/internal/dto"
	"omniops-core/internal/entity"
	"omniops-core/internal/pkg/logger"
	"omniops-core/internal/repository/specification"
	"omniops-core/internal/repository/unitofwork"
	"omniops-core/pkg/embedding"
	"omniops-core/pkg/events"
	pkgNats "omniops-core/pkg/nats"
	"omniops-core/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pkgNats.Publisher
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedPageMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("consumer", "Processing page embedding", map[string]interface{}{"page_id": payload.PageId})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	page, err := uow.PageRepository().FindOne(ctx, specification.ByID{ID: payload.PageId})
	if err != nil {
		cs.logger.Error("consumer", "Failed to get page", map[string]interface{}{"page_id": payload.PageId, "error": err.Error()})
		msg.Nack() // Nack for retriable errors
		return
	}
	if page == nil {
		cs.logger.Warn("consumer", "Page not found, skipping", map[string]interface{}{"page_id": payload.PageId})
		msg.Ack() // Page deleted? Ack.
		return
	}

	pageUpdatedAt := "-"
	if page.UpdatedAt != nil {
		pageUpdatedAt = page.UpdatedAt.Format(time.RFC3339)
	}

	content := fmt.Sprintf(`Page Title: %s
URL: %s

%s

Created At: %s
Updated At: %s`,
		page.Title,
		page.Url,
		page.Content,
		page.CreatedAt.Format(time.RFC3339),
		pageUpdatedAt,
	)

	// ChunkSize: 1500 chars (approx 375 tokens) - Ultra safe for context limits
	// Overlap: 200 chars
	chunks := utils.SplitText(content, 1500, 200)
	cs.logger.Info("consumer", "Content split into chunks", map[string]interface{}{"page_id": page.Id, "chunks": len(chunks)})

	var newEmbeddings []*entity.PageEmbedding

	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskDocument)
		if err != nil {
			cs.logger.Error("consumer", "Failed to generate embedding for chunk", map[string]interface{}{
				"page_id": page.Id,
				"chunk":   i,
				"error":   err.Error(),
			})
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.PageEmbedding{
			Id:             uuid.New(),
			Document:       chunk, // Store specific chunk
			EmbeddingValue: res.Embedding.Values,
			PageId:         page.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("consumer", "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.PageEmbeddingRepository().DeleteByPageId(ctx, page.Id); err != nil {
		cs.logger.Error("consumer", "Failed to delete old embeddings", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.PageEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			cs.logger.Error("consumer", "Failed to create bulk embeddings", map[string]interface{}{"error": err.Error()})
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("consumer", "Failed to commit transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	// Analytics is auxiliary, a publish failure never fails the ingest.
	if cs.eventPublisher != nil {
		evt := events.NewPageIndexed(page.TenantId, page.Id, len(newEmbeddings))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("consumer", "Failed to publish PAGE_INDEXED event", map[string]interface{}{"error": err.Error()})
		}
	}

	cs.logger.Info("consumer", "Page processed", map[string]interface{}{"page_id": page.Id, "chunks": len(newEmbeddings)})
	msg.Ack()
}
