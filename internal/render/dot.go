package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/ziadkadry99/flowdoc/internal/extract"
)

// Dot renders a flow as Graphviz DOT source. The text can be fed to an
// external graphviz installation for image output.
type Dot struct {
	opts Options
}

// Render writes the flow as a .dot file next to outPath.
func (d *Dot) Render(flow extract.Flow, outPath string) (string, error) {
	path := withSuffix(outPath, ".dot")
	if err := os.WriteFile(path, []byte(d.Source(flow)), 0o644); err != nil {
		return "", fmt.Errorf("writing dot diagram: %w", err)
	}
	return path, nil
}

// Source returns the DOT digraph text for a flow.
func (d *Dot) Source(flow extract.Flow) string {
	direction := d.opts.Direction
	if direction == "" {
		direction = "TB"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", dotQuote(flow.Name))
	fmt.Fprintf(&b, "    graph [label=%s, labelloc=t, fontsize=16, rankdir=%s];\n", dotQuote(flow.Name), direction)

	for _, step := range flow.Steps {
		attrs := []string{"label=" + dotQuote(step.Name)}
		switch classify(step, flow.Edges) {
		case classDecision:
			attrs = append(attrs, "shape=diamond", "style=filled", "fillcolor=lightyellow")
		case classTerminal:
			attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=lightgreen")
		default:
			attrs = append(attrs, "shape=box", "style=filled", "fillcolor=lightblue")
		}
		if d.opts.IncludeDocstrings && step.Docstring != "" {
			attrs = append(attrs, "tooltip="+dotQuote(step.Docstring))
		}
		fmt.Fprintf(&b, "    %s [%s];\n", dotQuote(step.Identifier), strings.Join(attrs, ", "))
	}

	for _, edge := range flow.Edges {
		if label := branchLabel(edge.Branch); label != "" {
			fmt.Fprintf(&b, "    %s -> %s [label=%s];\n", dotQuote(edge.Source), dotQuote(edge.Target), dotQuote(label))
		} else {
			fmt.Fprintf(&b, "    %s -> %s;\n", dotQuote(edge.Source), dotQuote(edge.Target))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// dotQuote wraps a value in double quotes with escaping per the DOT
// language.
func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
