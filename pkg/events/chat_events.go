package events

import (
	"time"

	"github.com/google/uuid"
)

// Analytics events emitted by the chat and ingestion pipelines. They ride
// the NATS bus so reporting consumers stay out of the request path.

func NewChatTurnCompleted(tenantId, sessionId uuid.UUID, iterations, toolCalls int, aborted bool) Event {
	return BaseEvent{
		Type: "CHAT_TURN_COMPLETED",
		Data: map[string]interface{}{
			"tenant_id":  tenantId,
			"session_id": sessionId,
			"iterations": iterations,
			"tool_calls": toolCalls,
			"aborted":    aborted,
		},
		OccurredAt: time.Now(),
	}
}

func NewToolExecuted(tool string, durationMs int64, success bool) Event {
	return BaseEvent{
		Type: "TOOL_EXECUTED",
		Data: map[string]interface{}{
			"tool":        tool,
			"duration_ms": durationMs,
			"success":     success,
		},
		OccurredAt: time.Now(),
	}
}

func NewPageIndexed(tenantId, pageId uuid.UUID, chunks int) Event {
	return BaseEvent{
		Type: "PAGE_INDEXED",
		Data: map[string]interface{}{
			"tenant_id": tenantId,
			"page_id":   pageId,
			"chunks":    chunks,
		},
		OccurredAt: time.Now(),
	}
}

func NewTenantCreated(tenantId uuid.UUID, domain string) Event {
	return BaseEvent{
		Type: "TENANT_CREATED",
		Data: map[string]interface{}{
			"tenant_id": tenantId,
			"domain":    domain,
		},
		OccurredAt: time.Now(),
	}
}
