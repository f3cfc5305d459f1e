package analysis

import (
	"log/slog"
	"regexp"
	"unicode"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// FuncKind classifies the nearest enclosing named function.
type FuncKind int

const (
	FuncPlain FuncKind = iota
	FuncComponent
	FuncHook
)

// CallbackKind reports which reactive callback a node lives inside.
type CallbackKind int

const (
	CallbackNone CallbackKind = iota
	CallbackEffect
	CallbackDerivation
)

// FuncInfo describes one function node: its resolved name, classification
// and body.
type FuncInfo struct {
	Kind FuncKind
	Name string
	Node *sitter.Node
	Body *sitter.Node
}

const DefaultHookPattern = "^use[A-Z]"

// reactHookCalls is the fixed set of framework hook callees recognized by
// the hook-call test.
var reactHookCalls = map[string]bool{
	"useEffect":           true,
	"useLayoutEffect":     true,
	"useInsertionEffect":  true,
	"useMemo":             true,
	"useCallback":         true,
	"useRef":              true,
	"useImperativeHandle": true,
}

var markupKinds = map[string]bool{
	"jsx_element":              true,
	"jsx_self_closing_element": true,
	"jsx_fragment":             true,
}

var functionKinds = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"function_expression":            true,
	"function":                       true,
	"arrow_function":                 true,
	"method_definition":              true,
}

// Context answers position questions by walking ancestors. Results are
// memoized per node identity; the memo belongs to one file's analysis and
// dies with it, so node IDs can never collide across files.
type Context struct {
	src      []byte
	resolver *Resolver
	hookRe   *regexp.Regexp

	markupDepth map[uintptr]int
	funcs       map[uintptr]FuncInfo
}

func NewContext(src []byte, res *Resolver, hookPattern string) *Context {
	if hookPattern == "" {
		hookPattern = DefaultHookPattern
	}
	re, err := compilePattern(hookPattern)
	if err != nil {
		slog.Warn("invalid hook pattern, using default", "pattern", hookPattern, "error", err)
		re, _ = compilePattern(DefaultHookPattern)
	}
	return &Context{
		src:         src,
		resolver:    res,
		hookRe:      re,
		markupDepth: make(map[uintptr]int),
		funcs:       make(map[uintptr]FuncInfo),
	}
}

// MarkupDepth counts the JSX regions enclosing a node; nested regions
// compose by depth.
func (c *Context) MarkupDepth(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	id := node.Id()
	if depth, ok := c.markupDepth[id]; ok {
		return depth
	}
	depth := c.MarkupDepth(node.Parent())
	if markupKinds[node.Kind()] {
		depth++
	}
	c.markupDepth[id] = depth
	return depth
}

// InMarkup reports whether the node sits inside a declarative-markup region.
func (c *Context) InMarkup(node *sitter.Node) bool {
	return c.MarkupDepth(node) > 0
}

// InHookCall reports whether the node lies in the argument list of the
// nearest enclosing call expression and that callee is a recognized
// framework hook. The walk stops at the first enclosing call either way.
func (c *Context) InHookCall(node *sitter.Node) bool {
	prev := node
	for a := node.Parent(); a != nil; a = a.Parent() {
		if a.Kind() == "call_expression" {
			args := a.ChildByFieldName("arguments")
			if args == nil || prev.Id() != args.Id() {
				return false
			}
			return reactHookCalls[calleeName(a, c.src)]
		}
		prev = a
	}
	return false
}

// EnclosingFunction resolves the nearest enclosing function of a node and
// classifies it by name: Component when capitalized, Hook when it matches
// the hook pattern, Plain otherwise (including anonymous functions).
func (c *Context) EnclosingFunction(node *sitter.Node) FuncInfo {
	for a := node.Parent(); a != nil; a = a.Parent() {
		if functionKinds[a.Kind()] {
			return c.FunctionInfo(a)
		}
	}
	return FuncInfo{}
}

// FunctionInfo classifies one function node directly. Memoized.
func (c *Context) FunctionInfo(fn *sitter.Node) FuncInfo {
	id := fn.Id()
	if info, ok := c.funcs[id]; ok {
		return info
	}
	info := FuncInfo{
		Name: functionName(fn, c.src),
		Node: fn,
		Body: fn.ChildByFieldName("body"),
	}
	info.Kind = c.classifyFunctionName(info.Name)
	c.funcs[id] = info
	return info
}

func (c *Context) classifyFunctionName(name string) FuncKind {
	if name == "" {
		return FuncPlain
	}
	if c.hookRe.MatchString(name) {
		return FuncHook
	}
	first, _ := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(first) {
		return FuncComponent
	}
	return FuncPlain
}

// Callback reports whether the node lies within the syntactic argument list
// of an effect-creator or derived-creator call. Walks the full ancestor
// chain: a node nested in helper calls inside the callback still counts.
func (c *Context) Callback(node *sitter.Node) CallbackKind {
	prev := node
	for a := node.Parent(); a != nil; a = a.Parent() {
		if a.Kind() == "call_expression" {
			args := a.ChildByFieldName("arguments")
			if args != nil && prev.Id() == args.Id() {
				switch c.resolver.CalleeRole(a.ChildByFieldName("function"), c.src) {
				case RoleEffect:
					return CallbackEffect
				case RoleDerived:
					return CallbackDerivation
				}
			}
		}
		prev = a
	}
	return CallbackNone
}

// functionName resolves a function's name from its declaration or, for
// function-valued expressions, from the variable, assignment target or
// object key it is bound to.
func functionName(fn *sitter.Node, src []byte) string {
	if name := fn.ChildByFieldName("name"); name != nil {
		return name.Utf8Text(src)
	}
	parent := fn.Parent()
	if parent == nil {
		return ""
	}
	switch parent.Kind() {
	case "variable_declarator":
		if name := parent.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
			return name.Utf8Text(src)
		}
	case "assignment_expression":
		if left := parent.ChildByFieldName("left"); left != nil && left.Kind() == "identifier" {
			return left.Utf8Text(src)
		}
	case "pair":
		return propertyKeyText(parent.ChildByFieldName("key"), src)
	}
	return ""
}

// calleeName extracts the callee spelling of a call: the identifier itself,
// or the property name of a member call such as "React.useMemo".
func calleeName(call *sitter.Node, src []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "identifier":
		return fn.Utf8Text(src)
	case "member_expression":
		if property := fn.ChildByFieldName("property"); property != nil {
			return property.Utf8Text(src)
		}
	}
	return ""
}
