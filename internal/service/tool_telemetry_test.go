package service

import (
	"testing"

	"omniops-core/pkg/agent"
)

type telemetryNopLogger struct{}

func (telemetryNopLogger) Debug(module, message string, details map[string]interface{}) {}
func (telemetryNopLogger) Info(module, message string, details map[string]interface{})  {}
func (telemetryNopLogger) Warn(module, message string, details map[string]interface{})  {}
func (telemetryNopLogger) Error(module, message string, details map[string]interface{}) {}
func (telemetryNopLogger) Sync() error                                                  { return nil }

func TestToolTelemetryWithoutPublisherIsNoop(t *testing.T) {
	// The bus is optional infrastructure; without it telemetry must drop
	// silently instead of panicking mid-turn.
	obs := NewToolTelemetry(nil, telemetryNopLogger{})

	obs.ToolExecuted(agent.ToolUsage{Name: "search_store", DurationMS: 12, Success: true})
	obs.ToolExecuted(agent.ToolUsage{Name: "check_stock", DurationMS: 3, Success: false})
}
