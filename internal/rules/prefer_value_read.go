package rules

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"sigwatch/internal/analysis"
	"sigwatch/internal/report"
)

// PreferValueRead flags a bare reference to a signal inside a plain function
// body, where the author almost certainly wanted the current value. JSX
// positions are exempt (frameworks render signals directly there), as are
// framework hook argument lists and alias declarations.
type PreferValueRead struct{}

func (PreferValueRead) Name() string { return "prefer-value-read" }
func (PreferValueRead) Description() string {
	return "Bare signal references outside markup should read .value"
}
func (PreferValueRead) DefaultSeverity() report.Severity { return report.SeverityError }

func (r PreferValueRead) Visit(a *analysis.Analysis, node *sitter.Node, emit Reporter) error {
	if node.Kind() != "identifier" || analysis.ExcludedIdentifier(node) {
		return nil
	}
	if a.Bindings.ClassOf(a.Text(node)).Kind != analysis.ClassSignal {
		return nil
	}
	if !r.bareUse(node) {
		return nil
	}
	if a.Context.InMarkup(node) || a.Context.InHookCall(node) {
		return nil
	}
	fn := a.Context.EnclosingFunction(node)
	if fn.Node == nil || fn.Kind != analysis.FuncPlain {
		return nil
	}

	name := a.Text(node)
	emit(report.Diagnostic{
		Rule:     r.Name(),
		Severity: r.DefaultSeverity(),
		Location: a.File.Location(node),
		Message:  "use the value accessor: " + name + ".value",
		Data:     map[string]string{"name": name},
		Fix: &report.EditSet{Edits: []report.Edit{{
			Start:   int(node.EndByte()),
			End:     int(node.EndByte()),
			NewText: ".value",
		}}},
	})
	return nil
}

// bareUse rejects positions where the identifier is not itself the value
// being consumed: member bases (already an accessor chain), call callees,
// and alias declarations, which legitimately pass the signal object around.
func (PreferValueRead) bareUse(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}
	switch parent.Kind() {
	case "member_expression", "subscript_expression":
		return false
	case "call_expression":
		fn := parent.ChildByFieldName("function")
		return fn == nil || fn.Id() != node.Id()
	case "variable_declarator":
		return false
	}
	return true
}
