package llm

import (
	"context"
	"errors"
)

// ErrInvocation wraps upstream model-call failures. The conversation loop
// retries these with bounded backoff; they never reach the end user raw.
var ErrInvocation = errors.New("llm invocation failed")

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role       string // "system", "user", "assistant", "tool"
	Content    string
	ToolCalls  []ToolCall // assistant messages that requested tool executions
	ToolCallID string     // tool messages carrying a result, matched by call id
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON object
}

// ToolSpec describes a callable capability exposed to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON schema
}

// Completion is the model's answer for one iteration: either final text or
// a batch of tool calls to execute (never both populated at once in practice).
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Complete sends the chat history plus a tool catalog to the model.
	// The model returns either final answer text or a set of tool calls.
	Complete(ctx context.Context, history []Message, tools []ToolSpec, options ...Option) (*Completion, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
