package service

import (
	"context"

	"omniops-core/internal/pkg/logger"
	"omniops-core/pkg/events"
	pkgNats "omniops-core/pkg/nats"
)

type IAnalyticsService interface {
	Start() error
}

// analyticsService drains the event bus into a dedicated log file so usage
// reporting stays decoupled from the request path. Downstream consumers
// read the same stream with their own durable names.
type analyticsService struct {
	subscriber *pkgNats.Subscriber
	logger     logger.ILogger
}

func NewAnalyticsService(subscriber *pkgNats.Subscriber, log logger.ILogger) IAnalyticsService {
	return &analyticsService{
		subscriber: subscriber,
		logger:     log,
	}
}

func (s *analyticsService) Start() error {
	return s.subscriber.Subscribe("events.>", "analytics-logger", func(ctx context.Context, event events.Event) error {
		s.logger.Info("analytics", event.EventType(), event.Payload())
		return nil
	})
}
