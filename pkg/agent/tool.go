package agent

import (
	"context"
	"encoding/json"
	"time"
)

// ToolHandler executes one tool invocation. Arguments arrive as the raw JSON
// object emitted by the model; the returned string is fed back to the model
// as the tool output.
type ToolHandler func(ctx context.Context, args json.RawMessage) (string, error)

// ToolDefinition is one callable capability exposed to the model. The
// catalog is rebuilt per request from tenant capabilities; definitions are
// never shared mutable state.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON schema
	Handler     ToolHandler
}

// ToolResult is the structured outcome of one tool call. Exactly one result
// exists per call, matched by call id, success or not.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
	Error   string
	Elapsed time.Duration
}

func (r ToolResult) Succeeded() bool {
	return r.Error == ""
}

// ToolUsage is per-tool telemetry surfaced with the turn response and
// published for downstream analytics.
type ToolUsage struct {
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	Success    bool   `json:"success"`
}
