package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ziadkadry99/flowdoc/internal/pyast"
)

// stepDef pairs a collected Step with the syntax nodes it was extracted
// from, so that a later pass can walk the function body for calls.
type stepDef struct {
	step Step
	// fn is the function_definition node.
	fn *sitter.Node
	// decorated is the enclosing decorated_definition node.
	decorated *sitter.Node
}

// collectSteps finds every step-tagged function or method anywhere in the
// file, in source order. Async definitions are treated identically to
// synchronous ones. Extraction failures degrade to diagnostics; this
// phase never fails outright.
func collectSteps(f *pyast.File) ([]stepDef, []Diagnostic) {
	var defs []stepDef
	var diags []Diagnostic

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "decorated_definition" {
			if def, ok := stepFromDecorated(n, f, &diags); ok {
				defs = append(defs, def)
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(f.Root())

	return defs, diags
}

// stepFromDecorated extracts a Step from a decorated_definition whose
// definition is a function carrying a step tag.
func stepFromDecorated(decorated *sitter.Node, f *pyast.File, diags *[]Diagnostic) (stepDef, bool) {
	fn := decorated.ChildByFieldName("definition")
	if fn == nil || fn.Type() != "function_definition" {
		return stepDef{}, false
	}

	var tag *sitter.Node
	for _, expr := range decoratorExprs(decorated) {
		if isStepTag(expr, f) {
			tag = expr
			break
		}
	}
	if tag == nil {
		return stepDef{}, false
	}

	nameNode := fn.ChildByFieldName("name")
	if nameNode == nil {
		return stepDef{}, false
	}
	identifier := f.Text(nameNode)

	args, argDiags := tagArguments(tag, f)
	*diags = append(*diags, argDiags...)

	step := Step{
		Name:       identifier,
		Identifier: identifier,
		Docstring:  f.Docstring(fn.ChildByFieldName("body")),
	}
	if name, ok := args["name"]; ok {
		step.Name = name
	}
	if desc, ok := args["description"]; ok {
		step.Description = desc
	}

	return stepDef{step: step, fn: fn, decorated: decorated}, true
}

// stepsByOffset indexes step definitions by the byte offset of their
// decorated_definition node. Offsets are unique within a file, unlike
// identifiers, which methods and top-level functions may share.
func stepsByOffset(defs []stepDef) map[uint32]stepDef {
	byOffset := make(map[uint32]stepDef, len(defs))
	for _, d := range defs {
		byOffset[d.decorated.StartByte()] = d
	}
	return byOffset
}

// stepNames returns the set of identifiers of the given definitions.
func stepNames(defs []stepDef) map[string]bool {
	names := make(map[string]bool, len(defs))
	for _, d := range defs {
		names[d.step.Identifier] = true
	}
	return names
}
