package core

import (
	"context"
	"errors"
	"testing"
)

func TestModelLimiter(t *testing.T) {
	ml := NewModelLimiter(2)

	for i := 0; i < 2; i++ {
		if err := ml.Increment(); err != nil {
			t.Fatalf("call %d: unexpected error %v", i+1, err)
		}
	}
	if ml.Remaining() != 0 {
		t.Errorf("expected 0 remaining, got %d", ml.Remaining())
	}

	if err := ml.Increment(); !errors.Is(err, ErrModelCallLimit) {
		t.Fatalf("expected ErrModelCallLimit, got %v", err)
	}
	if ml.Count() != 3 {
		t.Errorf("expected count 3, got %d", ml.Count())
	}
	if ml.Remaining() != 0 {
		t.Errorf("remaining must not go negative, got %d", ml.Remaining())
	}
}

func TestModelLimiter_Unlimited(t *testing.T) {
	ml := NewModelLimiter(0)
	for i := 0; i < 100; i++ {
		if err := ml.Increment(); err != nil {
			t.Fatal(err)
		}
	}
	if ml.Remaining() != -1 {
		t.Errorf("expected -1 for unlimited, got %d", ml.Remaining())
	}
}

func TestRunContext_LimiterSharedByCopies(t *testing.T) {
	rc := NewRunContext(context.Background(), "s", "r", AgentInfo{Name: "root"}, func(o *RunContextOptions) {
		o.Limiter = NewModelLimiter(1)
	})
	child := rc.WithAgent(AgentInfo{Name: "child"})

	if err := rc.CountModelCall(); err != nil {
		t.Fatal(err)
	}
	if err := child.CountModelCall(); !errors.Is(err, ErrModelCallLimit) {
		t.Fatalf("child must share the run budget, got %v", err)
	}

	unlimited := NewRunContext(context.Background(), "s", "r", AgentInfo{Name: "root"})
	if err := unlimited.CountModelCall(); err != nil {
		t.Fatalf("nil limiter must not fail: %v", err)
	}
}

func TestToolContext_TransferToAgent(t *testing.T) {
	rc := NewRunContext(context.Background(), "s", "r", AgentInfo{Name: "LifeAssistant"})
	callCtx := rc.WithContext(context.Background())
	tc := NewToolContext(callCtx, "call")

	tc.TransferToAgent("content_creator")

	ev := NewEvent("r", "LifeAssistant")
	tc.ApplyActions(&ev)
	if ev.Actions.TransferToAgent != "content_creator" {
		t.Errorf("transfer not attached to event: %+v", ev.Actions)
	}

	if rc.TransferTarget() != "content_creator" {
		t.Fatalf("transfer must be visible on the parent context, got %q", rc.TransferTarget())
	}
	if got := rc.TakeTransfer(); got != "content_creator" {
		t.Errorf("unexpected target %q", got)
	}
	if rc.TransferTarget() != "" {
		t.Error("TakeTransfer must clear the request")
	}
}
