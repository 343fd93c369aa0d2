package agent

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"omniops-core/pkg/llm"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func staticTool(name, reply string) ToolDefinition {
	return ToolDefinition{
		Name: name,
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			return reply, nil
		},
	}
}

func TestExecuteResultsAlignWithCalls(t *testing.T) {
	catalog := []ToolDefinition{
		staticTool("alpha", "alpha-output"),
		staticTool("beta", "beta-output"),
	}
	calls := []llm.ToolCall{
		{ID: "call-1", Name: "alpha", Arguments: "{}"},
		{ID: "call-2", Name: "beta", Arguments: "{}"},
		{ID: "call-3", Name: "alpha", Arguments: "{}"},
	}

	e := NewExecutor(time.Second, nopLogger{}, nil)
	results := e.Execute(context.Background(), catalog, calls)

	if len(results) != len(calls) {
		t.Fatalf("results = %d, want %d", len(results), len(calls))
	}
	for i, r := range results {
		if r.CallID != calls[i].ID {
			t.Errorf("results[%d].CallID = %q, want %q", i, r.CallID, calls[i].ID)
		}
		if !r.Succeeded() {
			t.Errorf("results[%d] failed: %s", i, r.Error)
		}
	}
	if results[1].Content != "beta-output" {
		t.Errorf("results[1].Content = %q, want beta-output", results[1].Content)
	}
}

func TestExecuteIsolatesFailures(t *testing.T) {
	catalog := []ToolDefinition{
		staticTool("healthy", "ok"),
		{
			Name: "failing",
			Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
				return "", errors.New("backend exploded")
			},
		},
		{
			Name: "panicking",
			Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
				panic("nil map write")
			},
		},
	}
	calls := []llm.ToolCall{
		{ID: "c1", Name: "failing", Arguments: "{}"},
		{ID: "c2", Name: "panicking", Arguments: "{}"},
		{ID: "c3", Name: "healthy", Arguments: "{}"},
	}

	e := NewExecutor(time.Second, nopLogger{}, nil)
	results := e.Execute(context.Background(), catalog, calls)

	if results[0].Succeeded() || results[0].Error != "backend exploded" {
		t.Errorf("failing tool result = %+v, want its error captured", results[0])
	}
	if results[1].Succeeded() {
		t.Error("panicking tool should settle into an error result")
	}
	if !results[2].Succeeded() || results[2].Content != "ok" {
		t.Errorf("healthy tool result = %+v, want untouched success", results[2])
	}
}

func TestExecuteTimeoutDoesNotBlockBatch(t *testing.T) {
	catalog := []ToolDefinition{
		staticTool("fast", "done"),
		{
			Name: "slow",
			Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
				select {
				case <-time.After(5 * time.Second):
					return "too late", nil
				case <-ctx.Done():
					return "", ctx.Err()
				}
			},
		},
	}
	calls := []llm.ToolCall{
		{ID: "c1", Name: "slow", Arguments: "{}"},
		{ID: "c2", Name: "fast", Arguments: "{}"},
	}

	e := NewExecutor(50*time.Millisecond, nopLogger{}, nil)
	start := time.Now()
	results := e.Execute(context.Background(), catalog, calls)
	elapsed := time.Since(start)

	if elapsed > 2*time.Second {
		t.Fatalf("batch took %s, the slow tool blocked it", elapsed)
	}
	if results[0].Succeeded() {
		t.Error("slow tool should have timed out")
	}
	if !results[1].Succeeded() {
		t.Errorf("fast tool should be unaffected, got: %s", results[1].Error)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	e := NewExecutor(time.Second, nopLogger{}, nil)
	results := e.Execute(context.Background(), nil, []llm.ToolCall{
		{ID: "c1", Name: "does_not_exist", Arguments: "{}"},
	})

	if results[0].Succeeded() {
		t.Error("unknown tool should settle into an error result")
	}
	if results[0].Error != "unknown tool: does_not_exist" {
		t.Errorf("Error = %q", results[0].Error)
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	usages []ToolUsage
}

func (o *recordingObserver) ToolExecuted(usage ToolUsage) {
	o.mu.Lock()
	o.usages = append(o.usages, usage)
	o.mu.Unlock()
}

func TestExecuteEmitsTelemetry(t *testing.T) {
	observer := &recordingObserver{}
	catalog := []ToolDefinition{staticTool("alpha", "ok")}
	calls := []llm.ToolCall{
		{ID: "c1", Name: "alpha", Arguments: "{}"},
		{ID: "c2", Name: "missing", Arguments: "{}"},
	}

	e := NewExecutor(time.Second, nopLogger{}, observer)
	e.Execute(context.Background(), catalog, calls)

	if len(observer.usages) != 2 {
		t.Fatalf("usages = %d, want one per call", len(observer.usages))
	}
	if !observer.usages[0].Success {
		t.Error("usages[0].Success = false, want true")
	}
	if observer.usages[1].Success {
		t.Error("usages[1].Success = true, want false for unknown tool")
	}
}
