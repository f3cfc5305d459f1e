package analysis

import (
	"sort"
	"strconv"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// AccessShape classifies how one syntax node touches a reactive value.
// Computed on demand, never persisted.
type AccessShape int

const (
	ShapeNone AccessShape = iota
	ShapeBareRef
	ShapeValueRead
	ShapePeekRead
	ShapeDestructure
)

const (
	// ValueProperty is the subscribing "current value" accessor.
	ValueProperty = "value"
	// PeekProperty reads without subscribing; only meaningful when invoked.
	PeekProperty = "peek"
)

// wrapperKinds are expression wrappers that are transparent for base
// resolution: parentheses and the TypeScript cast family.
var wrapperKinds = map[string]bool{
	"parenthesized_expression": true,
	"non_null_expression":      true,
	"as_expression":            true,
	"satisfies_expression":     true,
}

// Unwrap strips transparent wrappers from an expression node.
func Unwrap(node *sitter.Node) *sitter.Node {
	for node != nil && wrapperKinds[node.Kind()] {
		node = node.NamedChild(0)
	}
	return node
}

// MatchAccess decides the access shape of one node against the file's
// classification table.
func MatchAccess(node *sitter.Node, src []byte, b *Bindings) AccessShape {
	if node == nil {
		return ShapeNone
	}
	switch node.Kind() {
	case "identifier":
		if ExcludedIdentifier(node) {
			return ShapeNone
		}
		if b.ClassOf(node.Utf8Text(src)).Known() {
			return ShapeBareRef
		}
	case "member_expression":
		base, property := memberParts(node, src, b)
		if base == "" {
			return ShapeNone
		}
		switch property {
		case ValueProperty:
			return ShapeValueRead
		case PeekProperty:
			// Counted only when the access itself is invoked; a bare
			// "peek" property on an unrelated object must not match.
			if isImmediatelyInvoked(node) {
				return ShapePeekRead
			}
		}
	case "object_pattern", "array_pattern":
		if rhs := PatternRHS(node); rhs != nil && b.ClassOfNode(rhs, src).Known() {
			return ShapeDestructure
		}
	}
	return ShapeNone
}

// memberParts returns the classified base name and property spelling of a
// member expression, or "" when the base is not classified.
func memberParts(member *sitter.Node, src []byte, b *Bindings) (base, property string) {
	object := Unwrap(member.ChildByFieldName("object"))
	prop := member.ChildByFieldName("property")
	if object == nil || prop == nil || object.Kind() != "identifier" {
		return "", ""
	}
	name := object.Utf8Text(src)
	if !b.ClassOf(name).Known() {
		return "", ""
	}
	return name, prop.Utf8Text(src)
}

// ValueReadBase returns the classified base of an "x.value" read, or false.
func ValueReadBase(node *sitter.Node, src []byte, b *Bindings) (string, bool) {
	if node == nil || node.Kind() != "member_expression" {
		return "", false
	}
	base, property := memberParts(node, src, b)
	if base != "" && property == ValueProperty {
		return base, true
	}
	return "", false
}

// PeekAccessBase returns the classified base of an "x.peek" access and
// whether the access is immediately invoked.
func PeekAccessBase(node *sitter.Node, src []byte, b *Bindings) (base string, invoked, ok bool) {
	if node == nil || node.Kind() != "member_expression" {
		return "", false, false
	}
	base, property := memberParts(node, src, b)
	if base == "" || property != PeekProperty {
		return "", false, false
	}
	return base, isImmediatelyInvoked(node), true
}

func isImmediatelyInvoked(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "call_expression" {
		return false
	}
	fn := parent.ChildByFieldName("function")
	return fn != nil && fn.Id() == node.Id()
}

// PatternRHS resolves the right-hand side a binding or assignment pattern is
// destructured from.
func PatternRHS(pattern *sitter.Node) *sitter.Node {
	parent := pattern.Parent()
	if parent == nil {
		return nil
	}
	switch parent.Kind() {
	case "variable_declarator":
		if name := parent.ChildByFieldName("name"); name != nil && name.Id() == pattern.Id() {
			return Unwrap(parent.ChildByFieldName("value"))
		}
	case "assignment_expression":
		if left := parent.ChildByFieldName("left"); left != nil && left.Id() == pattern.Id() {
			return Unwrap(parent.ChildByFieldName("right"))
		}
	}
	return nil
}

// PatternCaptures returns the keys/indices a destructuring pattern binds
// explicitly, plus whether a rest element is present.
func PatternCaptures(pattern *sitter.Node, src []byte) (explicit map[string]bool, hasRest bool) {
	explicit = make(map[string]bool)
	switch pattern.Kind() {
	case "object_pattern":
		for i := uint(0); i < pattern.NamedChildCount(); i++ {
			entry := pattern.NamedChild(i)
			if entry == nil {
				continue
			}
			switch entry.Kind() {
			case "shorthand_property_identifier_pattern":
				explicit[entry.Utf8Text(src)] = true
			case "pair_pattern":
				if key := propertyKeyText(entry.ChildByFieldName("key"), src); key != "" {
					explicit[key] = true
				}
			case "object_assignment_pattern":
				// "{ k = default }": the bound key is the left side.
				if left := entry.ChildByFieldName("left"); left != nil {
					explicit[left.Utf8Text(src)] = true
				}
			case "rest_pattern":
				hasRest = true
			}
		}
	case "array_pattern":
		// Indices must account for elision holes, so count separators
		// rather than named children.
		index := 0
		for i := uint(0); i < pattern.ChildCount(); i++ {
			child := pattern.Child(i)
			if child == nil {
				continue
			}
			if !child.IsNamed() {
				if child.Kind() == "," {
					index++
				}
				continue
			}
			if child.Kind() == "rest_pattern" {
				hasRest = true
				continue
			}
			explicit[strconv.Itoa(index)] = true
		}
	}
	return explicit, hasRest
}

// CapturedHazards computes which hazard keys a pattern captures: every
// explicitly bound hazard key, plus — when a rest element exists — every
// hazard key not individually bound. Each key appears at most once.
func CapturedHazards(cls Classification, pattern *sitter.Node, src []byte) []string {
	if cls.Kind != ClassContainer || len(cls.HazardKeys) == 0 {
		return nil
	}
	explicit, hasRest := PatternCaptures(pattern, src)
	captured := make(map[string]bool)
	for key := range cls.HazardKeys {
		if explicit[key] || hasRest {
			captured[key] = true
		}
	}
	keys := make([]string, 0, len(captured))
	for key := range captured {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// typeContextKinds mark TypeScript type positions; identifiers inside them
// are never value uses.
var typeContextKinds = map[string]bool{
	"type_annotation":        true,
	"type_arguments":         true,
	"type_parameters":        true,
	"type_alias_declaration": true,
	"interface_declaration":  true,
	"type_query":             true,
	"type_predicate":         true,
	"generic_type":           true,
	"index_type_query":       true,
}

// ExcludedIdentifier reports whether an identifier sits in a position that
// must never count as a value use: import/export specifiers, type positions,
// member key positions, declaration names, parameters, assignment targets,
// and JSX tag/attribute names.
func ExcludedIdentifier(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return true
	}
	switch parent.Kind() {
	case "import_specifier", "namespace_import", "import_clause",
		"export_specifier", "export_clause":
		return true
	case "jsx_opening_element", "jsx_closing_element", "jsx_self_closing_element", "jsx_attribute":
		return true
	case "variable_declarator":
		if name := parent.ChildByFieldName("name"); name != nil && name.Id() == node.Id() {
			return true
		}
	case "function_declaration", "generator_function_declaration", "class_declaration", "method_definition":
		if name := parent.ChildByFieldName("name"); name != nil && name.Id() == node.Id() {
			return true
		}
	case "formal_parameters", "required_parameter", "optional_parameter", "rest_pattern":
		return true
	case "arrow_function":
		if param := parent.ChildByFieldName("parameter"); param != nil && param.Id() == node.Id() {
			return true
		}
	case "assignment_expression", "augmented_assignment_expression":
		if left := parent.ChildByFieldName("left"); left != nil && left.Id() == node.Id() {
			return true
		}
	case "pair":
		if key := parent.ChildByFieldName("key"); key != nil && key.Id() == node.Id() {
			return true
		}
	}
	for a := parent; a != nil; a = a.Parent() {
		if typeContextKinds[a.Kind()] {
			return true
		}
	}
	return false
}
