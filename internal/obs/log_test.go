package obs

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLoggerIsNoOp(t *testing.T) {
	if L() == nil {
		t.Fatal("L() must never return nil")
	}
	// A no-op logger must not panic on use even with no sink configured.
	L().Debugw("should go nowhere", FieldBytes, 3)
}

func TestSetLoggerReplacesAndRestoresDefault(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core).Sugar())

	L().Infow("hello", FieldTraceID, "abc-123")
	if logs.Len() != 1 {
		t.Fatalf("got %d log entries, want 1", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "hello" {
		t.Fatalf("message = %q, want hello", entry.Message)
	}

	SetLogger(nil)
	L().Infow("should not reach the observer core")
	if logs.Len() != 1 {
		t.Fatal("SetLogger(nil) should restore the no-op default")
	}
}
