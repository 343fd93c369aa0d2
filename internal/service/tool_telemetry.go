package service

import (
	"context"
	"time"

	"omniops-core/internal/pkg/logger"
	"omniops-core/pkg/agent"
	"omniops-core/pkg/events"
	pkgNats "omniops-core/pkg/nats"
)

// toolTelemetry forwards per-tool execution telemetry to the analytics bus.
// The executor emits after the batch settles, off the tool goroutines, so a
// slow publish delays the turn response at most briefly and never a tool.
type toolTelemetry struct {
	publisher *pkgNats.Publisher
	logger    logger.ILogger
}

func NewToolTelemetry(publisher *pkgNats.Publisher, log logger.ILogger) agent.Observer {
	return &toolTelemetry{
		publisher: publisher,
		logger:    log,
	}
}

func (t *toolTelemetry) ToolExecuted(usage agent.ToolUsage) {
	if t.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	evt := events.NewToolExecuted(usage.Name, usage.DurationMS, usage.Success)
	if err := t.publisher.Publish(ctx, evt); err != nil {
		t.logger.Warn("telemetry", "Failed to publish TOOL_EXECUTED event", map[string]interface{}{
			"error": err.Error(),
			"tool":  usage.Name,
		})
	}
}
