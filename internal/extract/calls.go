package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ziadkadry99/flowdoc/internal/pyast"
)

// callVisitor walks a function body detecting calls to known steps. A
// single mutable branch slot tracks the innermost enclosing conditional;
// nested conditionals overwrite it for their extent and restore on exit,
// so a call site is labeled by the nearest conditional only.
type callVisitor struct {
	f       *pyast.File
	isKnown func(name string) bool
	branch  Branch
	calls   []Edge
}

// findStepCalls returns the calls to known steps inside the given
// function definition, in source order. isKnown decides membership in the
// step set (typically local steps unioned with the registry).
func findStepCalls(fn *sitter.Node, f *pyast.File, isKnown func(string) bool) []Edge {
	v := &callVisitor{f: f, isKnown: isKnown}
	v.visit(fn)
	return v.calls
}

func (v *callVisitor) visit(n *sitter.Node) {
	switch n.Type() {
	case "call":
		if target := v.callTarget(n); target != "" && v.isKnown(target) {
			v.calls = append(v.calls, Edge{
				Target: target,
				Branch: v.branch,
				Line:   v.f.Line(n),
			})
		}
		// Keep walking: call arguments may contain further calls. An
		// await wrapper needs no special handling; the awaited call is
		// reached by the same traversal.
		v.visitChildren(n)

	case "if_statement":
		saved := v.branch

		// The condition expression is not visited; only the arms are.
		if consequence := n.ChildByFieldName("consequence"); consequence != nil {
			v.branch = BranchThen
			v.visit(consequence)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "elif_clause":
				// An elif arm is the then-arm of its own conditional.
				if consequence := child.ChildByFieldName("consequence"); consequence != nil {
					v.branch = BranchThen
					v.visit(consequence)
				}
			case "else_clause":
				if body := child.ChildByFieldName("body"); body != nil {
					v.branch = BranchOtherwise
					v.visit(body)
				}
			}
		}

		v.branch = saved

	default:
		v.visitChildren(n)
	}
}

func (v *callVisitor) visitChildren(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		v.visit(n.NamedChild(i))
	}
}

// callTarget resolves the candidate identifier of a call expression.
// Two shapes are accepted: a method call on the enclosing instance
// (self.name(...)) and a direct call to a bare name (name(...)).
// Anything else yields no candidate.
func (v *callVisitor) callTarget(call *sitter.Node) string {
	callee := call.ChildByFieldName("function")
	if callee == nil {
		return ""
	}
	switch callee.Type() {
	case "identifier":
		return v.f.Text(callee)
	case "attribute":
		obj := callee.ChildByFieldName("object")
		if obj != nil && obj.Type() == "identifier" && v.f.Text(obj) == "self" {
			if attr := callee.ChildByFieldName("attribute"); attr != nil {
				return v.f.Text(attr)
			}
		}
	}
	return ""
}
