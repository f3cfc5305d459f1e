package rules

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"sigwatch/internal/analysis"
	"sigwatch/internal/report"
)

// NoHazardDestructure flags destructuring that captures a signal, either
// directly or through a hazard key of a signal-bearing container. The
// destructured binding is a dead snapshot: it no longer participates in
// subscription tracking.
type NoHazardDestructure struct{}

func (NoHazardDestructure) Name() string { return "no-hazard-destructure" }
func (NoHazardDestructure) Description() string {
	return "Destructuring a signal or a signal-bearing container key breaks reactivity"
}
func (NoHazardDestructure) DefaultSeverity() report.Severity { return report.SeverityError }

func (r NoHazardDestructure) Visit(a *analysis.Analysis, node *sitter.Node, emit Reporter) error {
	kind := node.Kind()
	if kind != "object_pattern" && kind != "array_pattern" {
		return nil
	}
	rhs := analysis.PatternRHS(node)
	if rhs == nil {
		return nil
	}
	cls := a.Bindings.ClassOfNode(rhs, a.File.Source)
	if !cls.Known() {
		return nil
	}

	rhsName := ""
	if rhs.Kind() == "identifier" {
		rhsName = a.Text(rhs)
	}

	switch cls.Kind {
	case analysis.ClassSignal:
		subject := rhsName
		if subject == "" {
			subject = "a signal"
		}
		emit(report.Diagnostic{
			Rule:     r.Name(),
			Severity: r.DefaultSeverity(),
			Location: a.File.Location(node),
			Message:  "destructuring " + subject + " detaches it from subscription tracking; access its properties directly",
			Data:     map[string]string{"name": rhsName},
		})

	case analysis.ClassContainer:
		captured := analysis.CapturedHazards(cls, node, a.File.Source)
		if len(captured) == 0 {
			return nil
		}
		d := report.Diagnostic{
			Rule:     r.Name(),
			Severity: r.DefaultSeverity(),
			Location: a.File.Location(node),
			Message:  "destructuring captures signal-bearing keys (" + strings.Join(captured, ", ") + "); read them as properties instead",
			Data:     map[string]string{"name": rhsName, "keys": strings.Join(captured, ",")},
		}
		if set := r.memberReadRewrite(a, node, rhsName); set != nil {
			d.Suggestions = append(d.Suggestions, *set)
		}
		emit(d)
	}
	return nil
}

// memberReadRewrite proposes "k = base.k, ..." in place of the pattern and
// initializer, for the simple case: an all-shorthand object pattern without
// rest, destructured from a plain identifier in a variable declaration.
func (NoHazardDestructure) memberReadRewrite(a *analysis.Analysis, pattern *sitter.Node, base string) *report.EditSet {
	if base == "" || pattern.Kind() != "object_pattern" {
		return nil
	}
	decl := pattern.Parent()
	if decl == nil || decl.Kind() != "variable_declarator" {
		return nil
	}
	var names []string
	for i := uint(0); i < pattern.NamedChildCount(); i++ {
		entry := pattern.NamedChild(i)
		if entry == nil || entry.Kind() != "shorthand_property_identifier_pattern" {
			return nil
		}
		names = append(names, entry.Utf8Text(a.File.Source))
	}
	if len(names) == 0 {
		return nil
	}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" = "+base+"."+name)
	}
	return &report.EditSet{Edits: []report.Edit{{
		Start:   int(decl.StartByte()),
		End:     int(decl.EndByte()),
		NewText: strings.Join(parts, ", "),
	}}}
}
