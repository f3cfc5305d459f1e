package rules

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"sigwatch/internal/analysis"
	"sigwatch/internal/report"
)

const opBatchScan = "batch-scan"

// PreferBatch spots runs of consecutive signal mutations in one statement
// block: each write outside a batch re-notifies subscribers, so grouping
// them is the idiomatic optimization. Skipped when the batch operation is
// not imported or the block already runs inside one.
type PreferBatch struct{}

func (PreferBatch) Name() string { return "prefer-batch" }
func (PreferBatch) Description() string {
	return "Consecutive signal mutations should be grouped in a batch call"
}
func (PreferBatch) DefaultSeverity() report.Severity { return report.SeverityWarn }

func (r PreferBatch) Visit(a *analysis.Analysis, node *sitter.Node, emit Reporter) error {
	kind := node.Kind()
	if kind != "statement_block" && kind != "program" {
		return nil
	}
	batchLocal := a.Resolver.LocalNameFor(analysis.RoleBatch)
	if batchLocal == "" || r.insideBatch(a, node) {
		return nil
	}

	var run []*sitter.Node
	flush := func() {
		if len(run) >= 2 {
			first, last := run[0], run[len(run)-1]
			emit(report.Diagnostic{
				Rule:     r.Name(),
				Severity: r.DefaultSeverity(),
				Location: a.File.Location(first),
				Message:  "group these signal mutations in " + batchLocal + "(() => { ... }) to notify subscribers once",
				Data:     map[string]string{"batch": batchLocal},
				Suggestions: []report.EditSet{{Edits: []report.Edit{
					{Start: int(first.StartByte()), End: int(first.StartByte()), NewText: batchLocal + "(() => {\n"},
					{Start: int(last.EndByte()), End: int(last.EndByte()), NewText: "\n});"},
				}}},
			})
		}
		run = nil
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		if !a.Budget.ContinueOp(opBatchScan) {
			return nil
		}
		stmt := node.NamedChild(i)
		if stmt != nil && r.isSignalMutation(a, stmt) {
			run = append(run, stmt)
			continue
		}
		flush()
	}
	flush()
	return nil
}

func (PreferBatch) isSignalMutation(a *analysis.Analysis, stmt *sitter.Node) bool {
	if stmt.Kind() != "expression_statement" {
		return false
	}
	expr := stmt.NamedChild(0)
	if expr == nil {
		return false
	}
	var target *sitter.Node
	switch expr.Kind() {
	case "assignment_expression", "augmented_assignment_expression":
		target = expr.ChildByFieldName("left")
	case "update_expression":
		target = expr.ChildByFieldName("argument")
	default:
		return false
	}
	_, ok := analysis.ValueReadBase(target, a.File.Source, a.Bindings)
	return ok
}

func (PreferBatch) insideBatch(a *analysis.Analysis, node *sitter.Node) bool {
	prev := node
	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		if anc.Kind() == "call_expression" {
			args := anc.ChildByFieldName("arguments")
			if args != nil && prev.Id() == args.Id() &&
				a.Resolver.CalleeRole(anc.ChildByFieldName("function"), a.File.Source) == analysis.RoleBatch {
				return true
			}
		}
		prev = anc
	}
	return false
}
