package analysis

import (
	"testing"
	"time"

	coreerrors "sigwatch/internal/core/errors"
)

func TestBudgetNodeCap(t *testing.T) {
	s := NewBudgetState(Budget{MaxNodes: 3})

	for i := 0; i < 3; i++ {
		if !s.Continue() {
			t.Fatalf("call %d should be within budget", i+1)
		}
	}
	// The call processing the (N+1)th node trips the cap.
	if s.Continue() {
		t.Error("call 4 should exceed a 3-node budget")
	}
	if !s.Exceeded() {
		t.Error("state should report exhaustion")
	}
}

func TestBudgetStaysExhausted(t *testing.T) {
	s := NewBudgetState(Budget{MaxNodes: 1})
	s.Continue()
	s.Continue()

	for i := 0; i < 10; i++ {
		if s.Continue() {
			t.Fatal("an exhausted budget must never recover")
		}
	}
}

func TestBudgetOpCaps(t *testing.T) {
	s := NewBudgetState(Budget{MaxNodes: 100, OpCaps: map[string]int{"scan": 2}})

	if !s.ContinueOp("scan") || !s.ContinueOp("scan") {
		t.Fatal("first two scan ops should pass")
	}
	if s.ContinueOp("scan") {
		t.Error("third scan op should exceed the cap")
	}
	if s.ContinueOp("other") {
		t.Error("exhaustion applies to all subsequent work")
	}
}

func TestBudgetTimeCap(t *testing.T) {
	s := NewBudgetState(Budget{MaxNodes: 1 << 30, MaxTime: time.Nanosecond})
	time.Sleep(time.Millisecond)

	if s.Continue() {
		t.Error("elapsed time should trip the budget")
	}
}

func TestBudgetErr(t *testing.T) {
	s := NewBudgetState(Budget{MaxNodes: 1})
	if s.Err() != nil {
		t.Fatal("no error while budget has headroom")
	}
	s.Continue()
	s.Continue()

	err := s.Err()
	if err == nil {
		t.Fatal("expected an over-budget error")
	}
	if !coreerrors.IsCode(err, coreerrors.CodeBudgetExceeded) {
		t.Errorf("error must carry the budget code, got %v", err)
	}
	if _, ok := coreerrors.GetContext(err, coreerrors.CtxElapsed); !ok {
		t.Error("error should name the elapsed work")
	}
}
