package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ziadkadry99/flowdoc/internal/pyast"
)

// Accepted decorator spellings. These are closed sets: recognition is a
// match over fixed names, never dynamic lookup.
var (
	flowTagNames = map[string]bool{
		"flow":          true,
		"business_flow": true,
	}
	stepTagNames = map[string]bool{
		"step":          true,
		"business_step": true,
		"flow_step":     true,
	}
)

// isStepTag reports whether the decorator expression marks a step.
func isStepTag(expr *sitter.Node, f *pyast.File) bool {
	return matchesTag(expr, f, stepTagNames)
}

// isFlowTag reports whether the decorator expression marks a flow container.
func isFlowTag(expr *sitter.Node, f *pyast.File) bool {
	return matchesTag(expr, f, flowTagNames)
}

// matchesTag classifies a decorator expression against a set of accepted
// names. Three shapes are recognized: a bare name (@step), a call on a
// bare name (@step(...)), and a call on a qualified reference whose final
// segment is accepted (@flowdoc.step(...)). Classification only; argument
// extraction happens elsewhere.
func matchesTag(expr *sitter.Node, f *pyast.File, names map[string]bool) bool {
	if expr == nil {
		return false
	}
	switch expr.Type() {
	case "identifier":
		return names[f.Text(expr)]
	case "call":
		callee := expr.ChildByFieldName("function")
		if callee == nil {
			return false
		}
		switch callee.Type() {
		case "identifier":
			return names[f.Text(callee)]
		case "attribute":
			attr := callee.ChildByFieldName("attribute")
			return attr != nil && names[f.Text(attr)]
		}
	}
	return false
}

// decoratorExprs returns the decorator expressions attached to a
// decorated_definition node.
func decoratorExprs(decorated *sitter.Node) []*sitter.Node {
	var exprs []*sitter.Node
	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		child := decorated.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}
		if child.NamedChildCount() > 0 {
			exprs = append(exprs, child.NamedChild(0))
		}
	}
	return exprs
}

// tagArguments extracts keyword arguments from a tag call expression.
// Only literal string values are honored; a non-literal value yields a
// warning diagnostic naming the skipped argument, and the field falls
// back to its default. A bare (non-call) tag has no arguments.
func tagArguments(expr *sitter.Node, f *pyast.File) (map[string]string, []Diagnostic) {
	args := make(map[string]string)
	if expr == nil || expr.Type() != "call" {
		return args, nil
	}

	argList := expr.ChildByFieldName("arguments")
	if argList == nil {
		return args, nil
	}

	var diags []Diagnostic
	for i := 0; i < int(argList.NamedChildCount()); i++ {
		kw := argList.NamedChild(i)
		if kw.Type() != "keyword_argument" {
			continue
		}
		name := kw.ChildByFieldName("name")
		value := kw.ChildByFieldName("value")
		if name == nil || value == nil {
			continue
		}
		if pyast.IsPlainString(value) {
			args[f.Text(name)] = pyast.StringContent(f.Text(value))
			continue
		}
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Message:  "skipping dynamic decorator argument '" + f.Text(name) + "': only literal strings are supported",
			File:     f.Path,
			Line:     f.Line(kw),
		})
	}
	return args, diags
}
