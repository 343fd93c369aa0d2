package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"omniops-core/pkg/llm"
)

type scriptedStep struct {
	completion *llm.Completion
	err        error
}

// scriptedProvider replays a fixed sequence of model responses.
type scriptedProvider struct {
	steps []scriptedStep
	calls int
}

func (p *scriptedProvider) Complete(ctx context.Context, history []llm.Message, tools []llm.ToolSpec, options ...llm.Option) (*llm.Completion, error) {
	if p.calls >= len(p.steps) {
		return nil, errors.New("unexpected model call")
	}
	step := p.steps[p.calls]
	p.calls++
	return step.completion, step.err
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func countingTool(name string, counter *int) ToolDefinition {
	return ToolDefinition{
		Name: name,
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			*counter++
			return `{"ok":true}`, nil
		},
	}
}

func testController(provider llm.LLMProvider, cfg LoopConfig) *Controller {
	executor := NewExecutor(time.Second, nopLogger{}, nil)
	return NewController(provider, executor, cfg, nopLogger{})
}

func userTurn(text string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: "You are a helpful assistant."},
		{Role: "user", Content: text},
	}
}

func TestRunDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{steps: []scriptedStep{
		{completion: &llm.Completion{Content: "We are open 9 to 5."}},
	}}
	c := testController(provider, DefaultLoopConfig())

	result := c.Run(context.Background(), userTurn("opening hours?"), nil)

	if result.Answer != "We are open 9 to 5." {
		t.Errorf("Answer = %q", result.Answer)
	}
	if result.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", result.Iterations)
	}
	if result.Aborted {
		t.Error("Aborted = true, want false")
	}
	if len(result.ToolsUsed) != 0 {
		t.Errorf("ToolsUsed = %d, want 0", len(result.ToolsUsed))
	}
}

func TestRunToolRoundThenAnswer(t *testing.T) {
	var searches int
	catalog := []ToolDefinition{countingTool("search_store", &searches)}

	provider := &scriptedProvider{steps: []scriptedStep{
		{completion: &llm.Completion{ToolCalls: []llm.ToolCall{
			{ID: "c1", Name: "search_store", Arguments: `{"query":"widgets"}`},
		}}},
		{completion: &llm.Completion{Content: "We carry three widget models."}},
	}}
	c := testController(provider, DefaultLoopConfig())

	result := c.Run(context.Background(), userTurn("what widgets do you sell?"), catalog)

	if searches != 1 {
		t.Errorf("tool executions = %d, want 1", searches)
	}
	if result.Answer != "We carry three widget models." {
		t.Errorf("Answer = %q", result.Answer)
	}
	if result.Iterations != 2 {
		t.Errorf("Iterations = %d, want 2", result.Iterations)
	}
	if len(result.ToolsUsed) != 1 || result.ToolsUsed[0].Name != "search_store" {
		t.Errorf("ToolsUsed = %+v, want one search_store entry", result.ToolsUsed)
	}
}

func TestRunTruncatesToolBudget(t *testing.T) {
	var executions int
	catalog := []ToolDefinition{countingTool("search_store", &executions)}

	manyCalls := make([]llm.ToolCall, 5)
	for i := range manyCalls {
		manyCalls[i] = llm.ToolCall{ID: "c", Name: "search_store", Arguments: `{"query":"x"}`}
	}

	provider := &scriptedProvider{steps: []scriptedStep{
		{completion: &llm.Completion{ToolCalls: manyCalls}},
		// best-effort synthesis after the budget is spent
		{completion: &llm.Completion{Content: "Based on what I found, here it is."}},
	}}

	cfg := DefaultLoopConfig()
	cfg.MaxToolCalls = 2
	c := testController(provider, cfg)

	result := c.Run(context.Background(), userTurn("exhaustive question"), catalog)

	if executions != 2 {
		t.Errorf("tool executions = %d, want budget of 2", executions)
	}
	if !result.Aborted {
		t.Error("Aborted = false, want true after exhausting the tool budget")
	}
	if result.Answer != "Based on what I found, here it is." {
		t.Errorf("Answer = %q, want the best-effort synthesis", result.Answer)
	}
}

func TestRunStopsAtMaxIterations(t *testing.T) {
	var executions int
	catalog := []ToolDefinition{countingTool("search_store", &executions)}

	oneCall := []llm.ToolCall{{ID: "c", Name: "search_store", Arguments: `{"query":"x"}`}}
	provider := &scriptedProvider{steps: []scriptedStep{
		{completion: &llm.Completion{ToolCalls: oneCall}},
		{completion: &llm.Completion{ToolCalls: oneCall}},
		{completion: &llm.Completion{Content: "Here is what I gathered."}},
	}}

	cfg := DefaultLoopConfig()
	cfg.MaxIterations = 2
	c := testController(provider, cfg)

	result := c.Run(context.Background(), userTurn("keep digging"), catalog)

	if executions != 2 {
		t.Errorf("tool executions = %d, want 2", executions)
	}
	if !result.Aborted {
		t.Error("Aborted = false, want true after hitting the iteration ceiling")
	}
	if result.Answer != "Here is what I gathered." {
		t.Errorf("Answer = %q", result.Answer)
	}
}

func TestRunModelFailureDegradesToApology(t *testing.T) {
	provider := &scriptedProvider{steps: []scriptedStep{
		{err: errors.New("upstream 500")},
		{err: errors.New("upstream 500")},
		{err: errors.New("upstream 500")},
	}}

	cfg := DefaultLoopConfig()
	cfg.ModelRetries = 2
	cfg.RetryInterval = time.Millisecond
	c := testController(provider, cfg)

	result := c.Run(context.Background(), userTurn("anything"), nil)

	if provider.calls != 3 {
		t.Errorf("model calls = %d, want initial attempt plus 2 retries", provider.calls)
	}
	if result.Answer != apologyAnswer {
		t.Errorf("Answer = %q, want the apology fallback", result.Answer)
	}
	if result.Aborted {
		t.Error("Aborted = true, want false for a model outage")
	}
}

func TestRunBestEffortFallsBackToApology(t *testing.T) {
	oneCall := []llm.ToolCall{{ID: "c", Name: "search_store", Arguments: `{"query":"x"}`}}
	var executions int
	catalog := []ToolDefinition{countingTool("search_store", &executions)}

	provider := &scriptedProvider{steps: []scriptedStep{
		{completion: &llm.Completion{ToolCalls: oneCall}},
		// synthesis call fails too
		{err: errors.New("upstream 500")},
	}}

	cfg := DefaultLoopConfig()
	cfg.MaxIterations = 1
	c := testController(provider, cfg)

	result := c.Run(context.Background(), userTurn("anything"), catalog)

	if result.Answer != apologyAnswer {
		t.Errorf("Answer = %q, want the apology fallback", result.Answer)
	}
	if !result.Aborted {
		t.Error("Aborted = false, want true")
	}
}

func TestRunDoesNotRetryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &scriptedProvider{steps: []scriptedStep{
		{err: context.Canceled},
		{err: errors.New("should never be reached")},
	}}

	cfg := DefaultLoopConfig()
	cfg.ModelRetries = 5
	cfg.RetryInterval = time.Millisecond
	c := testController(provider, cfg)

	result := c.Run(ctx, userTurn("anything"), nil)

	if provider.calls != 1 {
		t.Errorf("model calls = %d, want 1 (cancellation is not retried)", provider.calls)
	}
	if result.Answer != apologyAnswer {
		t.Errorf("Answer = %q, want the apology fallback", result.Answer)
	}
}
