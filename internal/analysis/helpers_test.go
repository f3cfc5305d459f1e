package analysis

import (
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"sigwatch/internal/parser"
)

func parseFile(t *testing.T, name, source string) *parser.SourceFile {
	t.Helper()
	p := parser.NewParser(parser.NewGrammarLoader())
	file, err := p.ParseFile(name, []byte(source))
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	t.Cleanup(file.Close)
	return file
}

func newAnalysis(t *testing.T, name, source string, opts Options) *Analysis {
	t.Helper()
	return New(parseFile(t, name, source), opts)
}

// findNodes collects every node of the given kind in document order.
func findNodes(root *sitter.Node, kind string) []*sitter.Node {
	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Kind() == kind {
			out = append(out, n)
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

// findIdentifier returns the first identifier with the given spelling.
func findIdentifier(root *sitter.Node, src []byte, name string) *sitter.Node {
	for _, n := range findNodes(root, "identifier") {
		if n.Utf8Text(src) == name {
			return n
		}
	}
	return nil
}
