package analysis

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Role is what a recognized export does in the reactive API.
type Role int

const (
	RoleNone Role = iota
	RoleSignal
	RoleDerived
	RoleEffect
	RoleBatch
	RoleHook
)

// recognizedExports maps exported names of the signals packages to roles.
// Aliased imports register under their local name, so lookups always go
// through the resolver's tables, never this map directly (except for
// namespace member access, which resolves against the exported name).
var recognizedExports = map[string]Role{
	"signal":          RoleSignal,
	"computed":        RoleDerived,
	"effect":          RoleEffect,
	"batch":           RoleBatch,
	"useSignals":      RoleHook,
	"useSignal":       RoleSignal,
	"useComputed":     RoleDerived,
	"useSignalEffect": RoleEffect,
}

// DefaultModules is the source-module allow-list consulted for import
// provenance. Anything else is silently ignored.
var DefaultModules = []string{
	"@preact/signals",
	"@preact/signals-core",
	"@preact/signals-react",
	"@preact/signals-react/runtime",
}

// ImportBinding records one local name introduced by an import declaration.
type ImportBinding struct {
	Local       string
	Imported    string
	Module      string
	IsNamespace bool
}

// Resolver classifies local identifiers by import provenance. Built once per
// file from the top-level import statements; immutable afterwards.
type Resolver struct {
	allowed    map[string]bool
	roles      map[string]Role
	namespaces map[string]bool
	bindings   []ImportBinding
}

func NewResolver(modules []string) *Resolver {
	if len(modules) == 0 {
		modules = DefaultModules
	}
	allowed := make(map[string]bool, len(modules))
	for _, m := range modules {
		allowed[m] = true
	}
	return &Resolver{
		allowed:    allowed,
		roles:      make(map[string]Role),
		namespaces: make(map[string]bool),
	}
}

// Collect scans the file's top-level import statements. Only direct children
// of the root are considered; imports never nest.
func (r *Resolver) Collect(root *sitter.Node, src []byte) {
	for i := uint(0); i < root.ChildCount(); i++ {
		stmt := root.Child(i)
		if stmt == nil || stmt.Kind() != "import_statement" {
			continue
		}
		r.collectImport(stmt, src)
	}
}

func (r *Resolver) collectImport(stmt *sitter.Node, src []byte) {
	sourceNode := stmt.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	module := stringLiteral(sourceNode, src)
	if !r.allowed[module] {
		return
	}

	for i := uint(0); i < stmt.ChildCount(); i++ {
		child := stmt.Child(i)
		if child == nil {
			continue
		}
		// "import type { ... }" binds types, not values.
		if child.Kind() == "type" && !child.IsNamed() {
			return
		}
		if child.Kind() == "import_clause" {
			r.collectClause(child, src, module)
		}
	}
}

func (r *Resolver) collectClause(clause *sitter.Node, src []byte, module string) {
	for i := uint(0); i < clause.ChildCount(); i++ {
		child := clause.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "named_imports":
			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				r.collectSpecifier(spec, src, module)
			}
		case "namespace_import":
			// "* as alias": the alias is the last identifier child.
			for j := uint(0); j < child.ChildCount(); j++ {
				ident := child.Child(j)
				if ident != nil && ident.Kind() == "identifier" {
					local := ident.Utf8Text(src)
					r.namespaces[local] = true
					r.bindings = append(r.bindings, ImportBinding{
						Local:       local,
						Module:      module,
						IsNamespace: true,
					})
				}
			}
		}
	}
}

func (r *Resolver) collectSpecifier(spec *sitter.Node, src []byte, module string) {
	nameNode := spec.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	imported := nameNode.Utf8Text(src)
	local := imported
	if alias := spec.ChildByFieldName("alias"); alias != nil {
		local = alias.Utf8Text(src)
	}
	role, ok := recognizedExports[imported]
	if !ok {
		return
	}
	if _, exists := r.roles[local]; !exists {
		r.roles[local] = role
	}
	r.bindings = append(r.bindings, ImportBinding{
		Local:    local,
		Imported: imported,
		Module:   module,
	})
}

// RoleOf returns the role bound to a local name by a named import.
func (r *Resolver) RoleOf(local string) Role {
	return r.roles[local]
}

// NamespaceRole resolves "alias.member" against the recognized-export table.
func (r *Resolver) NamespaceRole(alias, member string) Role {
	if !r.namespaces[alias] {
		return RoleNone
	}
	return recognizedExports[member]
}

// CalleeRole classifies a call expression's callee: a plain identifier bound
// by a named import, or a namespace member access.
func (r *Resolver) CalleeRole(callee *sitter.Node, src []byte) Role {
	if callee == nil {
		return RoleNone
	}
	switch callee.Kind() {
	case "identifier":
		return r.RoleOf(callee.Utf8Text(src))
	case "member_expression":
		object := callee.ChildByFieldName("object")
		property := callee.ChildByFieldName("property")
		if object == nil || property == nil || object.Kind() != "identifier" {
			return RoleNone
		}
		return r.NamespaceRole(object.Utf8Text(src), property.Utf8Text(src))
	}
	return RoleNone
}

// HasImportEvidence reports whether any recognized binding was found. The
// suffix heuristic in fallback mode only runs when this is false.
func (r *Resolver) HasImportEvidence() bool {
	return len(r.roles) > 0 || len(r.namespaces) > 0
}

// LocalNameFor returns the local name bound to the first named import with
// the given role, or "" when none was imported.
func (r *Resolver) LocalNameFor(role Role) string {
	for _, b := range r.bindings {
		if !b.IsNamespace && r.roles[b.Local] == role {
			return b.Local
		}
	}
	return ""
}

func (r *Resolver) Bindings() []ImportBinding {
	return r.bindings
}

// stringLiteral returns the unquoted content of a string node.
func stringLiteral(node *sitter.Node, src []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == "string_fragment" {
			return child.Utf8Text(src)
		}
	}
	return strings.Trim(node.Utf8Text(src), "\"'`")
}
