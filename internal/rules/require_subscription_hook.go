package rules

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"sigwatch/internal/analysis"
	"sigwatch/internal/report"
)

const opHookScan = "hook-scan"

// RequireSubscriptionHook warns when a component body reads signal values
// without calling the subscription hook, so re-renders would silently stop
// tracking. Only active when the hook is actually importable in this file;
// plain signals-core usage needs no hook.
type RequireSubscriptionHook struct{}

func (RequireSubscriptionHook) Name() string { return "require-subscription-hook" }
func (RequireSubscriptionHook) Description() string {
	return "Components reading signal values must call the subscription hook"
}
func (RequireSubscriptionHook) DefaultSeverity() report.Severity { return report.SeverityWarn }

func (r RequireSubscriptionHook) Visit(a *analysis.Analysis, node *sitter.Node, emit Reporter) error {
	switch node.Kind() {
	case "function_declaration", "function_expression", "function", "arrow_function":
	default:
		return nil
	}
	info := a.Context.FunctionInfo(node)
	if info.Kind != analysis.FuncComponent || info.Body == nil {
		return nil
	}
	hookLocal := a.Resolver.LocalNameFor(analysis.RoleHook)
	if hookLocal == "" {
		return nil
	}

	scan := bodyScan{analysis: a}
	scan.walk(info.Body)
	if !scan.readsValue || scan.callsHook {
		return nil
	}

	d := report.Diagnostic{
		Rule:     r.Name(),
		Severity: r.DefaultSeverity(),
		Location: a.File.Location(node),
		Message:  "component " + info.Name + " reads signal values without calling " + hookLocal + "()",
		Data:     map[string]string{"component": info.Name, "hook": hookLocal},
	}
	if info.Body.Kind() == "statement_block" {
		open := info.Body.Child(0) // "{"
		if open != nil {
			d.Suggestions = append(d.Suggestions, report.EditSet{Edits: []report.Edit{{
				Start:   int(open.EndByte()),
				End:     int(open.EndByte()),
				NewText: "\n  " + hookLocal + "();",
			}}})
		}
	}
	emit(d)
	return nil
}

// bodyScan looks for signal value reads and hook calls in one component
// body. Reads inside nested callbacks still count: the hook must be called
// at component level either way.
type bodyScan struct {
	analysis   *analysis.Analysis
	readsValue bool
	callsHook  bool
}

func (s *bodyScan) walk(node *sitter.Node) {
	if node == nil || (s.readsValue && s.callsHook) {
		return
	}
	if !s.analysis.Budget.ContinueOp(opHookScan) {
		return
	}
	src := s.analysis.File.Source
	switch node.Kind() {
	case "member_expression":
		if _, ok := analysis.ValueReadBase(node, src, s.analysis.Bindings); ok {
			s.readsValue = true
		}
	case "identifier":
		// A bare signal rendered in markup subscribes the component too.
		if s.analysis.Context.InMarkup(node) && !analysis.ExcludedIdentifier(node) &&
			s.analysis.Bindings.ClassOf(node.Utf8Text(src)).Kind == analysis.ClassSignal {
			s.readsValue = true
		}
	case "call_expression":
		if s.analysis.Resolver.CalleeRole(node.ChildByFieldName("function"), src) == analysis.RoleHook {
			s.callsHook = true
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		s.walk(node.Child(i))
	}
}
