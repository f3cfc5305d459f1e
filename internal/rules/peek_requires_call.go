package rules

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"sigwatch/internal/analysis"
	"sigwatch/internal/report"
)

// PeekRequiresCall flags a peek accessor that is referenced but never
// invoked: the bare method reference neither reads the value nor documents
// intent, and usually means a missing call. Identically-named properties on
// unclassified bases are ignored.
type PeekRequiresCall struct{}

func (PeekRequiresCall) Name() string { return "peek-requires-call" }
func (PeekRequiresCall) Description() string {
	return "The non-subscribing peek accessor must be invoked"
}
func (PeekRequiresCall) DefaultSeverity() report.Severity { return report.SeverityWarn }

func (r PeekRequiresCall) Visit(a *analysis.Analysis, node *sitter.Node, emit Reporter) error {
	if node.Kind() != "member_expression" {
		return nil
	}
	base, invoked, ok := analysis.PeekAccessBase(node, a.File.Source, a.Bindings)
	if !ok || invoked {
		return nil
	}

	emit(report.Diagnostic{
		Rule:     r.Name(),
		Severity: r.DefaultSeverity(),
		Location: a.File.Location(node),
		Message:  base + ".peek is a method; call it to read without subscribing",
		Data:     map[string]string{"name": base},
		Fix: &report.EditSet{Edits: []report.Edit{{
			Start:   int(node.EndByte()),
			End:     int(node.EndByte()),
			NewText: "()",
		}}},
	})
	return nil
}
