package rules

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"sigwatch/internal/analysis"
	"sigwatch/internal/report"
)

// NoMutationInDerivation forbids writing a signal's value inside a
// derived-value callback. Derivations must stay pure; the same write inside
// an effect callback is allowed. No automatic fix: any rewrite would change
// program behavior.
type NoMutationInDerivation struct{}

func (NoMutationInDerivation) Name() string { return "no-mutation-in-derivation" }
func (NoMutationInDerivation) Description() string {
	return "Signal mutation is forbidden inside pure derivation callbacks"
}
func (NoMutationInDerivation) DefaultSeverity() report.Severity { return report.SeverityError }

func (r NoMutationInDerivation) Visit(a *analysis.Analysis, node *sitter.Node, emit Reporter) error {
	var target *sitter.Node
	switch node.Kind() {
	case "assignment_expression", "augmented_assignment_expression":
		target = node.ChildByFieldName("left")
	case "update_expression":
		target = node.ChildByFieldName("argument")
	default:
		return nil
	}

	base, ok := analysis.ValueReadBase(target, a.File.Source, a.Bindings)
	if !ok {
		return nil
	}
	if a.Context.Callback(node) != analysis.CallbackDerivation {
		return nil
	}

	emit(report.Diagnostic{
		Rule:     r.Name(),
		Severity: r.DefaultSeverity(),
		Location: a.File.Location(node),
		Message:  "signal " + base + " must not be mutated inside a computed callback",
		Data:     map[string]string{"name": base},
	})
	return nil
}
