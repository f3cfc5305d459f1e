// Package analysis is the shared analytical core: import-provenance
// resolution, binding classification, access-shape matching, context
// classification and the budgeted walk driver. All state lives in a
// per-file Analysis instance; nothing here is process-wide except the
// content-keyed regex cache.
package analysis

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"sigwatch/internal/parser"
)

// Options is the per-file configuration of the core.
type Options struct {
	Modules       []string
	SuffixPattern string
	SuffixMode    SuffixMode
	HookPattern   string
	Budget        Budget
}

// Analysis bundles the classification state for exactly one file.
// Constructed fresh per file, discarded at file end; never shared.
type Analysis struct {
	File     *parser.SourceFile
	Resolver *Resolver
	Bindings *Bindings
	Context  *Context
	Budget   *BudgetState
}

// New builds the per-file analysis state: one scan of the top-level imports,
// then the single forward classification pass, both charged against the
// budget.
func New(file *parser.SourceFile, opts Options) *Analysis {
	budget := NewBudgetState(opts.Budget)
	resolver := NewResolver(opts.Modules)
	resolver.Collect(file.Root(), file.Source)

	suffix := NewSuffixHeuristic(opts.SuffixPattern, opts.SuffixMode)
	bindings := CollectBindings(file.Root(), file.Source, resolver, suffix, budget)

	return &Analysis{
		File:     file,
		Resolver: resolver,
		Bindings: bindings,
		Context:  NewContext(file.Source, resolver, opts.HookPattern),
		Budget:   budget,
	}
}

// Walk drives one depth-first traversal of the file, consulting the budget
// before every node. On exhaustion it stops and returns the distinguishable
// budget error; visitor errors propagate unchanged.
func (a *Analysis) Walk(visit func(node *sitter.Node) error) error {
	cursor := a.File.Root().Walk()
	defer cursor.Close()
	if err := a.walk(cursor, visit); err != nil {
		return err
	}
	return a.Budget.Err()
}

func (a *Analysis) walk(cursor *sitter.TreeCursor, visit func(node *sitter.Node) error) error {
	if !a.Budget.Continue() {
		return nil
	}
	if err := visit(cursor.Node()); err != nil {
		return err
	}
	if cursor.GotoFirstChild() {
		if err := a.walk(cursor, visit); err != nil {
			return err
		}
		for cursor.GotoNextSibling() {
			if err := a.walk(cursor, visit); err != nil {
				return err
			}
		}
		cursor.GotoParent()
	}
	return nil
}

// Text returns the source slice for a node.
func (a *Analysis) Text(node *sitter.Node) string {
	return a.File.Text(node)
}
