package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"omniops-core/internal/dto"
	"omniops-core/internal/entity"
	"omniops-core/internal/repository/specification"
	"omniops-core/internal/repository/unitofwork"
	"omniops-core/pkg/embedding"
	"omniops-core/pkg/search"

	"github.com/google/uuid"
)

type IPageService interface {
	Upsert(ctx context.Context, tenantId uuid.UUID, req *dto.UpsertPageRequest) (*dto.UpsertPageResponse, error)
	Show(ctx context.Context, tenantId uuid.UUID, id uuid.UUID) (*dto.ShowPageResponse, error)
	Delete(ctx context.Context, tenantId uuid.UUID, id uuid.UUID) error
	SemanticSearch(ctx context.Context, tenantId uuid.UUID, query string) ([]*dto.SemanticSearchResponse, error)
}

type pageService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	vectorStore       search.VectorStore
	topK              int
	minSimilarity     float64
}

func NewPageService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	vectorStore search.VectorStore,
	topK int,
	minSimilarity float64,
) IPageService {
	return &pageService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		vectorStore:       vectorStore,
		topK:              topK,
		minSimilarity:     minSimilarity,
	}
}

// Upsert stores the page row and queues (re)embedding. Existing pages are
// matched by URL within the tenant.
func (s *pageService) Upsert(ctx context.Context, tenantId uuid.UUID, req *dto.UpsertPageRequest) (*dto.UpsertPageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page, err := uow.PageRepository().FindOne(ctx,
		specification.ByTenantID{TenantID: tenantId},
		specification.ByUrl{Url: req.Url},
	)
	if err != nil {
		return nil, err
	}

	if page == nil {
		page = &entity.Page{
			Id:        uuid.New(),
			TenantId:  tenantId,
			Url:       req.Url,
			Title:     req.Title,
			Content:   req.Content,
			Metadata:  req.Metadata,
			CreatedAt: time.Now(),
		}
		if err := uow.PageRepository().Create(ctx, page); err != nil {
			return nil, err
		}
	} else {
		page.Title = req.Title
		page.Content = req.Content
		page.Metadata = req.Metadata
		if err := uow.PageRepository().Update(ctx, page); err != nil {
			return nil, err
		}
	}

	msgPayload := dto.PublishEmbedPageMessage{
		PageId: page.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.UpsertPageResponse{
		Id: page.Id,
	}, nil
}

func (s *pageService) Show(ctx context.Context, tenantId uuid.UUID, id uuid.UUID) (*dto.ShowPageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	page, err := uow.PageRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByTenantID{TenantID: tenantId},
	)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, nil // Not found
	}

	return &dto.ShowPageResponse{
		Id:        page.Id,
		Url:       page.Url,
		Title:     page.Title,
		Content:   page.Content,
		Metadata:  page.Metadata,
		CreatedAt: page.CreatedAt,
		UpdatedAt: page.UpdatedAt,
	}, nil
}

func (s *pageService) Delete(ctx context.Context, tenantId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	page, err := uow.PageRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByTenantID{TenantID: tenantId},
	)
	if err != nil {
		return err
	}
	if page == nil {
		return errors.New("page not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.PageEmbeddingRepository().DeleteByPageId(ctx, page.Id); err != nil {
		return err
	}
	if err := uow.PageRepository().Delete(ctx, page.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *pageService) SemanticSearch(ctx context.Context, tenantId uuid.UUID, query string) ([]*dto.SemanticSearchResponse, error) {
	res, err := s.embeddingProvider.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, err
	}

	hits, err := s.vectorStore.Search(ctx, res.Embedding.Values, tenantId, s.topK, s.minSimilarity)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.SemanticSearchResponse, len(hits))
	for i, h := range hits {
		out[i] = &dto.SemanticSearchResponse{
			PageId:     h.PageID,
			Url:        h.URL,
			Title:      h.Title,
			Excerpt:    h.Excerpt,
			Similarity: h.Similarity,
		}
	}
	return out, nil
}
