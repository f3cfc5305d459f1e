// Package rules holds the policy checks. Each rule is an isolated consumer
// of the analysis core: it inspects one node at a time, decides violation,
// and may attach a safe fix and/or reviewed suggestions.
package rules

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"sigwatch/internal/analysis"
	"sigwatch/internal/report"
)

// Reporter receives diagnostics in node-visit order.
type Reporter func(report.Diagnostic)

type Rule interface {
	Name() string
	Description() string
	DefaultSeverity() report.Severity
	Visit(a *analysis.Analysis, node *sitter.Node, emit Reporter) error
}

// All returns the full rule set in stable order.
func All() []Rule {
	return []Rule{
		PreferValueRead{},
		NoMutationInDerivation{},
		NoHazardDestructure{},
		PeekRequiresCall{},
		RequireSubscriptionHook{},
		PreferBatch{},
	}
}

// Infos returns the SARIF rule metadata for a rule set.
func Infos(rules []Rule) []report.RuleInfo {
	infos := make([]report.RuleInfo, 0, len(rules))
	for _, r := range rules {
		infos = append(infos, report.RuleInfo{
			ID:          r.Name(),
			Description: r.Description(),
			Severity:    r.DefaultSeverity(),
		})
	}
	return infos
}
