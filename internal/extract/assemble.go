package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ziadkadry99/flowdoc/internal/pyast"
)

// assembleFlows builds the flows defined in one file: one Flow per
// flow-tagged class, plus at most one implicit Flow grouping the file's
// top-level steps. A file with neither produces no flows. isKnown decides
// which call targets become edges.
func assembleFlows(f *pyast.File, local []stepDef, isKnown func(string) bool) ([]Flow, []Diagnostic) {
	var flows []Flow
	var diags []Diagnostic

	byOffset := stepsByOffset(local)
	root := f.Root()

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node.Type() != "decorated_definition" {
			continue
		}
		class := node.ChildByFieldName("definition")
		if class == nil || class.Type() != "class_definition" {
			continue
		}
		if flow, ok := classFlow(node, class, f, byOffset, isKnown, &diags); ok {
			flows = append(flows, flow)
		}
	}

	if flow, ok := functionFlow(root, byOffset, isKnown, f); ok {
		flows = append(flows, flow)
	}

	return flows, diags
}

// classFlow assembles a Flow from a flow-tagged class: its step-tagged
// methods in source order, with detected calls turned into edges.
func classFlow(decorated, class *sitter.Node, f *pyast.File, byOffset map[uint32]stepDef, isKnown func(string) bool, diags *[]Diagnostic) (Flow, bool) {
	var tag *sitter.Node
	for _, expr := range decoratorExprs(decorated) {
		if isFlowTag(expr, f) {
			tag = expr
			break
		}
	}
	if tag == nil {
		return Flow{}, false
	}

	className := f.Text(class.ChildByFieldName("name"))
	args, argDiags := tagArguments(tag, f)
	*diags = append(*diags, argDiags...)

	flow := Flow{
		Name: className,
		Kind: FlowClass,
	}
	if name, ok := args["name"]; ok {
		flow.Name = name
	}
	if desc, ok := args["description"]; ok {
		flow.Description = desc
	}

	body := class.ChildByFieldName("body")
	if body == nil {
		return flow, true
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		if member.Type() != "decorated_definition" {
			continue
		}
		if def, ok := byOffset[member.StartByte()]; ok {
			appendStep(&flow, def, f, isKnown)
		}
	}

	return flow, true
}

// functionFlow assembles the implicit Flow from a file's top-level steps.
// Only module-level definitions participate; steps nested in classes or
// functions belong to their own grouping.
func functionFlow(root *sitter.Node, byOffset map[uint32]stepDef, isKnown func(string) bool, f *pyast.File) (Flow, bool) {
	flow := Flow{
		Name:        "Function Flow",
		Kind:        FlowFunction,
		Description: "Flow derived from standalone function",
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node.Type() != "decorated_definition" {
			continue
		}
		fn := node.ChildByFieldName("definition")
		if fn == nil || fn.Type() != "function_definition" {
			continue
		}
		if def, ok := byOffset[node.StartByte()]; ok {
			appendStep(&flow, def, f, isKnown)
		}
	}

	if len(flow.Steps) == 0 {
		return Flow{}, false
	}
	return flow, true
}

// appendStep runs call detection over a step definition and records the
// step and its outgoing edges on the flow.
func appendStep(flow *Flow, def stepDef, f *pyast.File, isKnown func(string) bool) {
	step := def.step
	calls := findStepCalls(def.fn, f, isKnown)

	for i := range calls {
		calls[i].Source = step.Identifier
	}
	step.Calls = calls

	flow.Steps = append(flow.Steps, step)
	flow.Edges = append(flow.Edges, calls...)
}
