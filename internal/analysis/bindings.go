package analysis

import (
	"strconv"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ClassKind is the classification of one local name.
type ClassKind int

const (
	ClassUnknown ClassKind = iota
	ClassSignal
	ClassContainer
)

// Classification carries the hazard keys for container-with-signal names.
// Keys are property names for object literals and decimal indices for array
// literals.
type Classification struct {
	Kind       ClassKind
	HazardKeys map[string]bool
}

func (c Classification) Known() bool {
	return c.Kind != ClassUnknown
}

// Bindings holds the per-file name classification table, filled by a single
// forward pass over variable declarations. Classification is monotonic: a
// name set to Signal or Container is never downgraded within the file.
type Bindings struct {
	resolver *Resolver
	suffix   *SuffixHeuristic
	names    map[string]Classification
}

const opBindings = "bindings"

// CollectBindings runs the forward classification pass. Declarations are
// visited in source order, so alias chains resolve transitively; a use that
// precedes its classifying declaration stays Unknown (first-pass-only, a
// documented limitation rather than something to patch around).
func CollectBindings(root *sitter.Node, src []byte, res *Resolver, suffix *SuffixHeuristic, budget *BudgetState) *Bindings {
	b := &Bindings{
		resolver: res,
		suffix:   suffix,
		names:    make(map[string]Classification),
	}
	cursor := root.Walk()
	defer cursor.Close()
	b.collect(cursor, src, budget)
	return b
}

func (b *Bindings) collect(cursor *sitter.TreeCursor, src []byte, budget *BudgetState) {
	node := cursor.Node()
	if !budget.Continue() {
		return
	}
	if node.Kind() == "variable_declarator" {
		if !budget.ContinueOp(opBindings) {
			return
		}
		b.classifyDeclarator(node, src)
	}
	if cursor.GotoFirstChild() {
		b.collect(cursor, src, budget)
		for cursor.GotoNextSibling() {
			b.collect(cursor, src, budget)
		}
		cursor.GotoParent()
	}
}

func (b *Bindings) classifyDeclarator(decl *sitter.Node, src []byte) {
	nameNode := decl.ChildByFieldName("name")
	if nameNode == nil || nameNode.Kind() != "identifier" {
		// Destructuring patterns are the access matcher's concern.
		return
	}
	value := Unwrap(decl.ChildByFieldName("value"))
	if value == nil {
		return
	}
	cls := b.classifyValue(value, src)
	if !cls.Known() {
		return
	}
	name := nameNode.Utf8Text(src)
	if existing, ok := b.names[name]; ok && existing.Known() {
		return
	}
	b.names[name] = cls
}

func (b *Bindings) classifyValue(value *sitter.Node, src []byte) Classification {
	switch value.Kind() {
	case "call_expression":
		if isCreatorRole(b.resolver.CalleeRole(value.ChildByFieldName("function"), src)) {
			return Classification{Kind: ClassSignal}
		}
	case "identifier":
		return b.ClassOf(value.Utf8Text(src))
	case "object":
		return b.classifyObjectLiteral(value, src)
	case "array":
		return b.classifyArrayLiteral(value, src)
	}
	return Classification{}
}

// classifyObjectLiteral inspects only the literal's top level; nested
// literals are not recursed into.
func (b *Bindings) classifyObjectLiteral(object *sitter.Node, src []byte) Classification {
	hazard := make(map[string]bool)
	for i := uint(0); i < object.NamedChildCount(); i++ {
		entry := object.NamedChild(i)
		if entry == nil {
			continue
		}
		switch entry.Kind() {
		case "pair":
			key := propertyKeyText(entry.ChildByFieldName("key"), src)
			if key == "" {
				continue
			}
			if b.isHazardValue(Unwrap(entry.ChildByFieldName("value")), src) {
				hazard[key] = true
			}
		case "shorthand_property_identifier":
			name := entry.Utf8Text(src)
			if b.ClassOf(name).Known() {
				hazard[name] = true
			}
		}
	}
	if len(hazard) == 0 {
		return Classification{}
	}
	return Classification{Kind: ClassContainer, HazardKeys: hazard}
}

func (b *Bindings) classifyArrayLiteral(array *sitter.Node, src []byte) Classification {
	hazard := make(map[string]bool)
	index := 0
	for i := uint(0); i < array.ChildCount(); i++ {
		child := array.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		if child.Kind() != "spread_element" && b.isHazardValue(Unwrap(child), src) {
			hazard[strconv.Itoa(index)] = true
		}
		index++
	}
	if len(hazard) == 0 {
		return Classification{}
	}
	return Classification{Kind: ClassContainer, HazardKeys: hazard}
}

// isHazardValue reports whether a literal entry embeds a signal: a direct
// creator call, or an identifier already classified as Signal or Container.
func (b *Bindings) isHazardValue(value *sitter.Node, src []byte) bool {
	if value == nil {
		return false
	}
	switch value.Kind() {
	case "call_expression":
		return isCreatorRole(b.resolver.CalleeRole(value.ChildByFieldName("function"), src))
	case "identifier":
		return b.ClassOf(value.Utf8Text(src)).Known()
	}
	return false
}

// ClassOf resolves a local name. Import-derived classification outranks the
// suffix heuristic; the heuristic never overrides a table entry.
func (b *Bindings) ClassOf(name string) Classification {
	if cls, ok := b.names[name]; ok {
		return cls
	}
	if b.suffix.Matches(name, b.resolver.HasImportEvidence()) {
		return Classification{Kind: ClassSignal}
	}
	return Classification{}
}

// ClassOfNode resolves the classification of an expression node: a local
// identifier or a direct creator call. Anything else is Unknown.
func (b *Bindings) ClassOfNode(node *sitter.Node, src []byte) Classification {
	node = Unwrap(node)
	if node == nil {
		return Classification{}
	}
	switch node.Kind() {
	case "identifier":
		return b.ClassOf(node.Utf8Text(src))
	case "call_expression":
		if isCreatorRole(b.resolver.CalleeRole(node.ChildByFieldName("function"), src)) {
			return Classification{Kind: ClassSignal}
		}
	}
	return Classification{}
}

func isCreatorRole(role Role) bool {
	return role == RoleSignal || role == RoleDerived
}

// propertyKeyText normalizes an object key node to its hazard-key spelling.
func propertyKeyText(key *sitter.Node, src []byte) string {
	if key == nil {
		return ""
	}
	switch key.Kind() {
	case "property_identifier", "number":
		return key.Utf8Text(src)
	case "string":
		return stringLiteral(key, src)
	}
	// Computed keys are not resolvable locally.
	return ""
}
