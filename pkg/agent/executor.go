package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"omniops-core/internal/pkg/logger"
	"omniops-core/pkg/llm"
)

// Observer receives per-tool telemetry. Implementations must be safe for
// concurrent use; emission is the executor's only side effect.
type Observer interface {
	ToolExecuted(usage ToolUsage)
}

// Executor runs a batch of tool calls concurrently. Every call settles into
// a structured result: errors, panics and timeouts are converted, never
// propagated, so one slow or broken tool cannot take down the batch.
type Executor struct {
	timeout  time.Duration
	logger   logger.ILogger
	observer Observer
}

func NewExecutor(timeout time.Duration, log logger.ILogger, observer Observer) *Executor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Executor{
		timeout:  timeout,
		logger:   log,
		observer: observer,
	}
}

// Execute fans out all calls at once and returns when every execution has
// settled. Results are positionally aligned with calls and carry the call id,
// so callers can rely on a strict 1:1 mapping regardless of completion order.
func (e *Executor) Execute(ctx context.Context, catalog []ToolDefinition, calls []llm.ToolCall) []ToolResult {
	byName := make(map[string]ToolDefinition, len(catalog))
	for _, def := range catalog {
		byName[def.Name] = def
	}

	results := make([]ToolResult, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call llm.ToolCall) {
			defer wg.Done()
			results[i] = e.runOne(ctx, byName, call)
		}(i, call)
	}
	wg.Wait()

	for _, result := range results {
		e.emit(result)
	}
	return results
}

type toolOutcome struct {
	content string
	err     error
}

func (e *Executor) runOne(ctx context.Context, byName map[string]ToolDefinition, call llm.ToolCall) ToolResult {
	start := time.Now()
	result := ToolResult{
		CallID: call.ID,
		Name:   call.Name,
	}

	def, ok := byName[call.Name]
	if !ok {
		result.Error = fmt.Sprintf("unknown tool: %s", call.Name)
		result.Elapsed = time.Since(start)
		return result
	}

	toolCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	outcome := make(chan toolOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				outcome <- toolOutcome{err: fmt.Errorf("tool panicked: %v", r)}
			}
		}()
		content, err := def.Handler(toolCtx, json.RawMessage(call.Arguments))
		outcome <- toolOutcome{content: content, err: err}
	}()

	select {
	case out := <-outcome:
		if out.err != nil {
			result.Error = out.err.Error()
		} else {
			result.Content = out.content
		}
	case <-toolCtx.Done():
		// The handler goroutine is abandoned; its buffered channel send
		// cannot block.
		result.Error = fmt.Sprintf("tool timed out after %s", e.timeout)
	}

	result.Elapsed = time.Since(start)
	return result
}

func (e *Executor) emit(result ToolResult) {
	usage := ToolUsage{
		Name:       result.Name,
		DurationMS: result.Elapsed.Milliseconds(),
		Success:    result.Succeeded(),
	}
	if e.observer != nil {
		e.observer.ToolExecuted(usage)
	}
	if e.logger != nil {
		e.logger.Info("agent", "tool executed", map[string]interface{}{
			"tool":        usage.Name,
			"duration_ms": usage.DurationMS,
			"success":     usage.Success,
		})
	}
}
