package analysis

import (
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	coreerrors "sigwatch/internal/core/errors"
)

func TestWalkVisitsInSourceOrder(t *testing.T) {
	a := newAnalysis(t, "a.ts", `
const first = 1;
const second = 2;
`, Options{})

	var order []string
	err := a.Walk(func(n *sitter.Node) error {
		if n.Kind() == "identifier" {
			order = append(order, a.Text(n))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("visit order = %v", order)
	}
}

func TestWalkReturnsBudgetError(t *testing.T) {
	source := `
const a = 1;
const b = 2;
const c = 3;
const d = 4;
const e = 5;
`
	a := newAnalysis(t, "a.ts", source, Options{Budget: Budget{MaxNodes: 10}})

	visited := 0
	err := a.Walk(func(n *sitter.Node) error {
		visited++
		return nil
	})
	if err == nil {
		t.Fatal("expected the budget error")
	}
	if !coreerrors.IsCode(err, coreerrors.CodeBudgetExceeded) {
		t.Errorf("want BUDGET_EXCEEDED, got %v", err)
	}
	// The bindings pass already consumed part of the budget, so the walk
	// stops before visiting everything; it must abstain, not crash.
	if visited > 10 {
		t.Errorf("visited %d nodes past the cap", visited)
	}
}

func TestFreshStatePerAnalysis(t *testing.T) {
	source := `
import { signal } from "@preact/signals";
const count = signal(0);
`
	a1 := newAnalysis(t, "a.ts", source, Options{})
	a2 := newAnalysis(t, "b.ts", source, Options{})

	if a1.Bindings == a2.Bindings || a1.Budget == a2.Budget || a1.Context == a2.Context {
		t.Error("per-file state must never be shared between analyses")
	}
	if a1.Bindings.ClassOf("count").Kind != ClassSignal ||
		a2.Bindings.ClassOf("count").Kind != ClassSignal {
		t.Error("both analyses classify independently")
	}
}
