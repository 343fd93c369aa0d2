package events

import "testing"

func TestNewToolExecuted(t *testing.T) {
	evt := NewToolExecuted("check_stock", 42, false)

	if evt.EventType() != "TOOL_EXECUTED" {
		t.Errorf("EventType() = %q, want %q", evt.EventType(), "TOOL_EXECUTED")
	}
	if evt.Timestamp().IsZero() {
		t.Error("Timestamp() is zero, want a stamped time")
	}

	payload := evt.Payload()
	if payload["tool"] != "check_stock" {
		t.Errorf("payload tool = %v, want %q", payload["tool"], "check_stock")
	}
	if payload["duration_ms"] != int64(42) {
		t.Errorf("payload duration_ms = %v, want 42", payload["duration_ms"])
	}
	if payload["success"] != false {
		t.Errorf("payload success = %v, want false", payload["success"])
	}
}
