package analysis

import (
	"fmt"
	"time"

	coreerrors "sigwatch/internal/core/errors"
	"sigwatch/internal/shared/util"
)

// Budget caps the traversal cost for one file. Immutable; shared by value.
type Budget struct {
	MaxNodes    int
	MaxTime     time.Duration
	MaxMemoryMB uint64
	OpCaps      map[string]int
}

const DefaultMaxNodes = 2000

func DefaultBudget() Budget {
	return Budget{
		MaxNodes: DefaultMaxNodes,
		MaxTime:  time.Second,
	}
}

// memoryCheckInterval spaces out ReadMemStats calls, which are not free.
const memoryCheckInterval = 256

// BudgetState tracks running counters for one file's analysis. Created fresh
// per file, discarded at file end. Counters only ever increase; once a cap
// trips the state stays exhausted for the rest of the file.
type BudgetState struct {
	budget  Budget
	started time.Time

	nodes    int
	ops      map[string]int
	exceeded bool
	reason   string
}

func NewBudgetState(b Budget) *BudgetState {
	if b.MaxNodes == 0 {
		b.MaxNodes = DefaultMaxNodes
	}
	return &BudgetState{
		budget:  b,
		started: time.Now(),
		ops:     make(map[string]int),
	}
}

// Continue counts one visited node and reports whether analysis may proceed.
// The first call that trips a cap records the reason; every later call
// returns false without further accounting.
func (s *BudgetState) Continue() bool {
	if s.exceeded {
		return false
	}
	s.nodes++
	if s.nodes > s.budget.MaxNodes {
		s.trip(fmt.Sprintf("node budget exhausted (%d nodes)", s.budget.MaxNodes))
		return false
	}
	if s.budget.MaxTime > 0 && time.Since(s.started) > s.budget.MaxTime {
		s.trip(fmt.Sprintf("time budget exhausted (%s)", s.budget.MaxTime))
		return false
	}
	if s.budget.MaxMemoryMB > 0 && s.nodes%memoryCheckInterval == 0 {
		if util.HeapAllocMB() > s.budget.MaxMemoryMB {
			s.trip(fmt.Sprintf("memory budget exhausted (%d MB)", s.budget.MaxMemoryMB))
			return false
		}
	}
	return true
}

// ContinueOp counts one unit of a named operation category against its cap,
// in addition to the global checks.
func (s *BudgetState) ContinueOp(op string) bool {
	if s.exceeded {
		return false
	}
	s.ops[op]++
	if limit, ok := s.budget.OpCaps[op]; ok && s.ops[op] > limit {
		s.trip(fmt.Sprintf("operation budget exhausted for %q (%d)", op, limit))
		return false
	}
	return true
}

func (s *BudgetState) trip(reason string) {
	s.exceeded = true
	s.reason = reason
}

func (s *BudgetState) Exceeded() bool {
	return s.exceeded
}

func (s *BudgetState) Nodes() int {
	return s.nodes
}

func (s *BudgetState) Elapsed() time.Duration {
	return time.Since(s.started)
}

// Err returns the distinguishable over-budget error, or nil while the budget
// still has headroom. Callers detect it with errors.IsCode(err,
// CodeBudgetExceeded); nothing else is signaled through this path.
func (s *BudgetState) Err() error {
	if !s.exceeded {
		return nil
	}
	err := coreerrors.New(coreerrors.CodeBudgetExceeded, s.reason)
	err = coreerrors.AddContext(err, coreerrors.CtxNodes, s.nodes)
	return coreerrors.AddContext(err, coreerrors.CtxElapsed, s.Elapsed().String())
}
