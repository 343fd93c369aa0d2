package bootstrap

import (
	"context"
	"log"
	"time"

	"omniops-core/internal/config"
	"omniops-core/internal/controller"
	"omniops-core/internal/pkg/logger"
	"omniops-core/internal/repository/memory"
	"omniops-core/internal/repository/rediscache"
	"omniops-core/internal/repository/unitofwork"
	"omniops-core/internal/service"
	"omniops-core/pkg/agent"
	"omniops-core/pkg/embedding"
	"omniops-core/pkg/llm/factory"
	"omniops-core/pkg/search"

	pkgNats "omniops-core/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	PageController   controller.IPageController
	TenantController controller.ITenantController

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	AnalyticsService service.IAnalyticsService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, "")
		log.Printf("[INFO] Using Embedding Provider: OPENAI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 4. Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	conversationCache := rediscache.NewConversationCache(rdb, time.Duration(cfg.Agent.ConversationTTLM)*time.Minute)

	// 5. Search Pipeline
	vectorStore := service.NewVectorStore(uowFactory)
	matcher, err := search.NewRegexMatcher(cfg.Search.SKUPattern)
	if err != nil {
		log.Fatalf("[FATAL] Invalid SKU pattern: %v", err)
	}
	orchestrator := search.NewOrchestrator(
		embeddingProvider,
		vectorStore,
		matcher,
		sysLogger,
		search.Config{
			MinSimilarity: cfg.Search.MinSimilarity,
			TopK:          cfg.Search.TopK,
			MaxResults:    cfg.Search.MaxResults,
		},
	)

	// 6. Agent Loop
	toolTelemetry := service.NewToolTelemetry(natsPub, sysLogger)
	executor := agent.NewExecutor(time.Duration(cfg.Agent.ToolTimeoutSec)*time.Second, sysLogger, toolTelemetry)
	loopCfg := agent.DefaultLoopConfig()
	loopCfg.MaxIterations = cfg.Agent.MaxIterations
	loopCfg.MaxToolCalls = cfg.Agent.MaxToolCalls
	loopCfg.ModelRetries = uint64(cfg.Agent.ModelRetries)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
		sysLogger,
	)

	tenantService := service.NewTenantService(uowFactory, natsPub, sysLogger)
	pageService := service.NewPageService(
		uowFactory,
		publisherService,
		embeddingProvider,
		vectorStore,
		cfg.Search.TopK,
		cfg.Search.MinSimilarity,
	)
	chatService := service.NewChatService(
		uowFactory,
		orchestrator,
		llmProvider,
		executor,
		loopCfg,
		sessionRepo,
		conversationCache,
		natsPub,
		sysLogger,
	)

	// Analytics worker drains the NATS stream into its own log file.
	var analyticsService service.IAnalyticsService
	if natsSub != nil {
		analyticsLogger := logger.NewIsolatedLogger("logs/analytics.log")
		analyticsService = service.NewAnalyticsService(natsSub, analyticsLogger)
	}

	// 8. Controllers
	return &Container{
		ChatController:   controller.NewChatController(chatService, tenantService),
		PageController:   controller.NewPageController(pageService, tenantService),
		TenantController: controller.NewTenantController(tenantService),

		ConsumerService:  consumerService,
		AnalyticsService: analyticsService,
	}
}
