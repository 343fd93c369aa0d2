package service

import (
	"context"
	"errors"
	"time"

	"omniops-core/internal/dto"
	"omniops-core/internal/entity"
	"omniops-core/internal/pkg/logger"
	"omniops-core/internal/repository/memory"
	"omniops-core/internal/repository/rediscache"
	"omniops-core/internal/repository/specification"
	"omniops-core/internal/repository/unitofwork"
	"omniops-core/pkg/agent"
	commercefactory "omniops-core/pkg/commerce/factory"
	"omniops-core/pkg/events"
	"omniops-core/pkg/llm"
	pkgNats "omniops-core/pkg/nats"
	"omniops-core/pkg/search"
	"omniops-core/pkg/store"
	"omniops-core/pkg/utils"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("chat session not found")

// historyWindow caps how many prior messages ride along on each turn.
const historyWindow = 20

type IChatService interface {
	CreateSession(ctx context.Context, tenant *entity.Tenant, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, tenantId uuid.UUID, visitorId string) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, tenantId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, tenantId uuid.UUID, sessionId uuid.UUID) error
	SendChat(ctx context.Context, tenant *entity.Tenant, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	orchestrator      *search.Orchestrator
	llmProvider       llm.LLMProvider
	executor          *agent.Executor
	loopCfg           agent.LoopConfig
	sessionRepo       *memory.SessionRepository
	conversationCache *rediscache.ConversationCache
	eventPublisher    *pkgNats.Publisher
	logger            logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	orchestrator *search.Orchestrator,
	llmProvider llm.LLMProvider,
	executor *agent.Executor,
	loopCfg agent.LoopConfig,
	sessionRepo *memory.SessionRepository,
	conversationCache *rediscache.ConversationCache,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		orchestrator:      orchestrator,
		llmProvider:       llmProvider,
		executor:          executor,
		loopCfg:           loopCfg,
		sessionRepo:       sessionRepo,
		conversationCache: conversationCache,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

func (s *chatService) CreateSession(ctx context.Context, tenant *entity.Tenant, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	title := req.Title
	if title == "" {
		title = "New conversation"
	}

	session := entity.ChatSession{
		Id:        uuid.New(),
		TenantId:  tenant.Id,
		VisitorId: req.VisitorId,
		Title:     title,
		CreatedAt: time.Now(),
	}

	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	s.sessionRepo.Save(&store.Session{
		ID:        session.Id.String(),
		TenantID:  tenant.Id.String(),
		VisitorID: req.VisitorId,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
	})

	return &dto.CreateSessionResponse{
		Id: session.Id,
	}, nil
}

func (s *chatService) GetAllSessions(ctx context.Context, tenantId uuid.UUID, visitorId string) ([]*dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.ByTenantID{TenantID: tenantId},
		specification.ByVisitorID{VisitorID: visitorId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 100},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.GetAllSessionsResponse, len(sessions))
	for i, sess := range sessions {
		out[i] = &dto.GetAllSessionsResponse{
			Id:        sess.Id,
			Title:     sess.Title,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		}
	}
	return out, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, tenantId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, tenantId, sessionId)
	if err != nil {
		return nil, err
	}

	// Both messages of a turn share one timestamp; role descending puts
	// "user" before "assistant" within the tie.
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.OrderBy{Field: "role", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.GetChatHistoryResponse, len(messages))
	for i, msg := range messages {
		out[i] = &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			ToolsUsed: msg.ToolsUsed,
			CreatedAt: msg.CreatedAt,
		}
	}
	return out, nil
}

func (s *chatService) DeleteSession(ctx context.Context, tenantId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, tenantId, sessionId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.sessionRepo.Delete(session.Id.String())
	if err := s.conversationCache.Invalidate(ctx, session.Id); err != nil {
		s.logger.Warn("chat", "Failed to invalidate conversation cache", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

// SendChat runs one full conversation turn: capability snapshot, tool
// catalog, model loop, persistence.
func (s *chatService) SendChat(ctx context.Context, tenant *entity.Tenant, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, tenant.Id, req.ChatSessionId)
	if err != nil {
		return nil, err
	}

	commerceProvider, err := commercefactory.NewProvider(
		tenant.CommercePlatform,
		tenant.CommerceBaseUrl,
		tenant.CommerceKey,
		tenant.CommerceSecret,
	)
	if err != nil {
		return nil, err
	}

	pageCount, err := uow.PageRepository().Count(ctx, specification.ByTenantID{TenantID: tenant.Id})
	if err != nil {
		return nil, err
	}

	caps := agent.TenantCapabilities{
		TenantID:         tenant.Id,
		Domain:           tenant.Domain,
		CommercePlatform: tenant.CommercePlatform,
		HasContentIndex:  pageCount > 0,
	}

	catalog := agent.BuildToolCatalog(caps, agent.Backends{
		Orchestrator: s.orchestrator,
		Commerce:     commerceProvider,
	})

	history, err := s.loadHistory(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	turnHistory := make([]llm.Message, 0, len(history)+2)
	turnHistory = append(turnHistory, llm.Message{
		Role:    "system",
		Content: agent.SystemPrompt(tenant.Name, caps),
	})
	turnHistory = append(turnHistory, history...)
	turnHistory = append(turnHistory, llm.Message{Role: "user", Content: req.Chat})

	controller := agent.NewController(s.llmProvider, s.executor, s.loopCfg, s.logger)
	result := controller.Run(ctx, turnHistory, catalog)

	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          req.Chat,
		Role:          "user",
		ChatSessionId: session.Id,
		CreatedAt:     now,
	}
	replyMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          result.Answer,
		Role:          "assistant",
		ChatSessionId: session.Id,
		ToolsUsed:     result.ToolsUsed,
		CreatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &replyMessage); err != nil {
		return nil, err
	}

	// First visitor message becomes the session title. The session here may
	// be a cache-built partial entity, so only the title column is written.
	if len(history) == 0 {
		session.Title = utils.Truncate(req.Chat, 80)
		if err := uow.ChatSessionRepository().UpdateTitle(ctx, session.Id, session.Title); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	newHistory := append(history,
		llm.Message{Role: "user", Content: req.Chat},
		llm.Message{Role: "assistant", Content: result.Answer},
	)
	if len(newHistory) > historyWindow {
		newHistory = newHistory[len(newHistory)-historyWindow:]
	}
	if err := s.conversationCache.Set(ctx, session.Id, newHistory); err != nil {
		s.logger.Warn("chat", "Failed to update conversation cache", map[string]interface{}{"error": err.Error()})
	}

	s.sessionRepo.Save(&store.Session{
		ID:        session.Id.String(),
		TenantID:  tenant.Id.String(),
		VisitorID: session.VisitorId,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		LastQuery: req.Chat,
		Turns:     len(newHistory) / 2,
	})

	// Analytics is auxiliary, a publish failure never fails the request.
	if s.eventPublisher != nil {
		evt := events.NewChatTurnCompleted(tenant.Id, session.Id, result.Iterations, len(result.ToolsUsed), result.Aborted)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("chat", "Failed to publish CHAT_TURN_COMPLETED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.SendChatResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: session.Title,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Chat:      userMessage.Chat,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        replyMessage.Id,
			Chat:      replyMessage.Chat,
			Role:      replyMessage.Role,
			ToolsUsed: replyMessage.ToolsUsed,
			CreatedAt: replyMessage.CreatedAt,
		},
		Iterations: result.Iterations,
		Aborted:    result.Aborted,
	}, nil
}

func (s *chatService) findSession(ctx context.Context, uow unitofwork.UnitOfWork, tenantId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	// Hot path: a cached session proves existence and tenant ownership, so
	// the session row lookup can be skipped for active widget conversations.
	if hot, found := s.sessionRepo.Get(sessionId.String()); found && hot.TenantID == tenantId.String() {
		return &entity.ChatSession{
			Id:        sessionId,
			TenantId:  tenantId,
			VisitorId: hot.VisitorID,
			Title:     hot.Title,
			CreatedAt: hot.CreatedAt,
		}, nil
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByTenantID{TenantID: tenantId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// loadHistory prefers the redis cache and falls back to the chat tables.
func (s *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]llm.Message, error) {
	cached, err := s.conversationCache.Get(ctx, sessionId)
	if err != nil {
		s.logger.Warn("chat", "Conversation cache read failed", map[string]interface{}{"error": err.Error()})
	} else if cached != nil {
		return cached, nil
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.OrderBy{Field: "role", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		history = append(history, llm.Message{
			Role:    msg.Role,
			Content: msg.Chat,
		})
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	return history, nil
}
