package agent

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"omniops-core/internal/pkg/logger"
	"omniops-core/pkg/llm"
)

// Loop states.
type loopState string

const (
	stateAwaitingModel  loopState = "awaiting_model"
	stateExecutingTools loopState = "executing_tools"
	stateDone           loopState = "done"
	stateAborted        loopState = "aborted"
)

// LoopConfig bounds one conversational turn. The ceilings are hard limits:
// the controller always terminates within MaxIterations model calls and
// MaxToolCalls tool executions, whatever the model asks for.
type LoopConfig struct {
	MaxIterations int
	MaxToolCalls  int
	ModelRetries  uint64
	RetryInterval time.Duration
}

func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		MaxIterations: 5,
		MaxToolCalls:  10,
		ModelRetries:  2,
		RetryInterval: 500 * time.Millisecond,
	}
}

const apologyAnswer = "Sorry, I ran into a technical problem while answering. Please try again in a moment."

// TurnResult is the outcome of one full user-message-to-answer cycle.
type TurnResult struct {
	Answer     string
	ToolsUsed  []ToolUsage
	Iterations int
	Aborted    bool // bounds were hit and the answer is best-effort
}

// Controller drives the iterative ask-model / run-tools state machine for a
// single turn. Nothing below this boundary escapes as an error to the
// caller: model failures become an apologetic answer, exhausted bounds
// become a best-effort answer.
type Controller struct {
	provider llm.LLMProvider
	executor *Executor
	cfg      LoopConfig
	logger   logger.ILogger
}

func NewController(provider llm.LLMProvider, executor *Executor, cfg LoopConfig, log logger.ILogger) *Controller {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultLoopConfig().MaxIterations
	}
	if cfg.MaxToolCalls <= 0 {
		cfg.MaxToolCalls = DefaultLoopConfig().MaxToolCalls
	}
	return &Controller{
		provider: provider,
		executor: executor,
		cfg:      cfg,
		logger:   log,
	}
}

// Run executes the turn. History must already contain the system prompt and
// the user's message; Run appends assistant/tool messages as it iterates.
func (c *Controller) Run(ctx context.Context, history []llm.Message, catalog []ToolDefinition) *TurnResult {
	specs := Specs(catalog)
	result := &TurnResult{}

	state := stateAwaitingModel
	totalToolCalls := 0

	for iteration := 0; ; iteration++ {
		if iteration >= c.cfg.MaxIterations || totalToolCalls >= c.cfg.MaxToolCalls {
			state = stateAborted
			c.logger.Warn("agent", "turn bounds exhausted, synthesizing best-effort answer", map[string]interface{}{
				"iterations": iteration,
				"tool_calls": totalToolCalls,
			})
			result.Answer = c.bestEffortAnswer(ctx, history)
			result.Aborted = true
			result.Iterations = iteration
			break
		}

		completion, err := c.completeWithRetry(ctx, history, specs)
		if err != nil {
			// Retries exhausted; degrade gracefully instead of surfacing.
			c.logger.Error("agent", "model invocation failed after retries", map[string]interface{}{
				"error": err.Error(),
			})
			result.Answer = apologyAnswer
			result.Iterations = iteration + 1
			state = stateDone
			break
		}

		if len(completion.ToolCalls) == 0 {
			state = stateDone
			result.Answer = completion.Content
			result.Iterations = iteration + 1
			break
		}

		state = stateExecutingTools
		calls := completion.ToolCalls
		if remaining := c.cfg.MaxToolCalls - totalToolCalls; len(calls) > remaining {
			calls = calls[:remaining]
		}

		history = append(history, llm.Message{
			Role:      "assistant",
			Content:   completion.Content,
			ToolCalls: calls,
		})

		toolResults := c.executor.Execute(ctx, catalog, calls)
		for _, tr := range toolResults {
			history = append(history, toolMessage(tr))
			result.ToolsUsed = append(result.ToolsUsed, ToolUsage{
				Name:       tr.Name,
				DurationMS: tr.Elapsed.Milliseconds(),
				Success:    tr.Succeeded(),
			})
		}
		totalToolCalls += len(calls)
		state = stateAwaitingModel
	}

	c.logger.Debug("agent", "turn finished", map[string]interface{}{
		"state":      string(state),
		"iterations": result.Iterations,
		"tool_calls": totalToolCalls,
		"aborted":    result.Aborted,
	})
	return result
}

// completeWithRetry wraps the model call in a bounded exponential-backoff
// retry. Only invocation failures are retried; context cancellation is not.
func (c *Controller) completeWithRetry(ctx context.Context, history []llm.Message, specs []llm.ToolSpec) (*llm.Completion, error) {
	var completion *llm.Completion

	policy := backoff.NewExponentialBackOff()
	if c.cfg.RetryInterval > 0 {
		policy.InitialInterval = c.cfg.RetryInterval
	}

	operation := func() error {
		var err error
		completion, err = c.provider.Complete(ctx, history, specs)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		c.logger.Warn("agent", "model invocation failed, retrying", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.cfg.ModelRetries), ctx))
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// bestEffortAnswer asks the model once, without tools, to answer from what
// has been gathered so far. The turn always returns something usable.
func (c *Controller) bestEffortAnswer(ctx context.Context, history []llm.Message) string {
	history = append(history, llm.Message{
		Role: "user",
		Content: "Please answer the original question now using only the information " +
			"already gathered above. Do not request any further searches.",
	})

	completion, err := c.provider.Complete(ctx, history, nil)
	if err != nil || completion.Content == "" {
		return apologyAnswer
	}
	return completion.Content
}

func toolMessage(result ToolResult) llm.Message {
	content := result.Content
	if !result.Succeeded() {
		payload, _ := json.Marshal(map[string]string{"error": result.Error})
		content = string(payload)
	}
	return llm.Message{
		Role:       "tool",
		Content:    content,
		ToolCallID: result.CallID,
	}
}
