package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"omniops-core/internal/dto"
	"omniops-core/internal/entity"
	"omniops-core/internal/pkg/logger"
	"omniops-core/internal/repository/specification"
	"omniops-core/internal/repository/unitofwork"
	commercefactory "omniops-core/pkg/commerce/factory"
	"omniops-core/pkg/events"
	pkgNats "omniops-core/pkg/nats"

	"github.com/google/uuid"
)

var ErrDomainTaken = errors.New("domain already registered")

type ITenantService interface {
	Create(ctx context.Context, req *dto.CreateTenantRequest) (*dto.CreateTenantResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowTenantResponse, error)
	Update(ctx context.Context, req *dto.UpdateTenantRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByDomain(ctx context.Context, domain string) (*entity.Tenant, error)
}

type tenantService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pkgNats.Publisher
	logger         logger.ILogger
}

func NewTenantService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) ITenantService {
	return &tenantService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *tenantService) Create(ctx context.Context, req *dto.CreateTenantRequest) (*dto.CreateTenantResponse, error) {
	// Credentials are validated eagerly so a typo surfaces at onboarding,
	// not on the first visitor question.
	if _, err := commercefactory.NewProvider(req.CommercePlatform, req.CommerceBaseUrl, req.CommerceKey, req.CommerceSecret); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	domain := strings.ToLower(req.Domain)
	existing, err := uow.TenantRepository().FindOne(ctx, specification.ByDomain{Domain: domain})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDomainTaken
	}

	tenant := entity.Tenant{
		Id:               uuid.New(),
		Name:             req.Name,
		Domain:           domain,
		CommercePlatform: req.CommercePlatform,
		CommerceBaseUrl:  req.CommerceBaseUrl,
		CommerceKey:      req.CommerceKey,
		CommerceSecret:   req.CommerceSecret,
		Active:           true,
		CreatedAt:        time.Now(),
	}

	if err := uow.TenantRepository().Create(ctx, &tenant); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewTenantCreated(tenant.Id, tenant.Domain)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("tenant", "Failed to publish TENANT_CREATED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.CreateTenantResponse{
		Id: tenant.Id,
	}, nil
}

func (s *tenantService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowTenantResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tenant, err := uow.TenantRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, nil // Not found
	}

	return &dto.ShowTenantResponse{
		Id:               tenant.Id,
		Name:             tenant.Name,
		Domain:           tenant.Domain,
		CommercePlatform: tenant.CommercePlatform,
		CommerceBaseUrl:  tenant.CommerceBaseUrl,
		Active:           tenant.Active,
		CreatedAt:        tenant.CreatedAt,
		UpdatedAt:        tenant.UpdatedAt,
	}, nil
}

func (s *tenantService) Update(ctx context.Context, req *dto.UpdateTenantRequest) error {
	if _, err := commercefactory.NewProvider(req.CommercePlatform, req.CommerceBaseUrl, req.CommerceKey, req.CommerceSecret); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	tenant, err := uow.TenantRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return err
	}
	if tenant == nil {
		return errors.New("tenant not found")
	}

	tenant.Name = req.Name
	tenant.CommercePlatform = req.CommercePlatform
	tenant.CommerceBaseUrl = req.CommerceBaseUrl
	tenant.CommerceKey = req.CommerceKey
	tenant.CommerceSecret = req.CommerceSecret
	tenant.Active = req.Active

	return uow.TenantRepository().Update(ctx, tenant)
}

func (s *tenantService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.PageEmbeddingRepository().DeleteAllByTenantIdUnscoped(ctx, id); err != nil {
		return err
	}
	if err := uow.PageRepository().DeleteAllByTenantIdUnscoped(ctx, id); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteAllByTenantIdUnscoped(ctx, id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().DeleteAllByTenantIdUnscoped(ctx, id); err != nil {
		return err
	}
	if err := uow.TenantRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *tenantService) FindByDomain(ctx context.Context, domain string) (*entity.Tenant, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.TenantRepository().FindOne(ctx,
		specification.ByDomain{Domain: strings.ToLower(domain)},
		specification.ActiveOnly{},
	)
}
