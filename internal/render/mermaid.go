package render

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ziadkadry99/flowdoc/internal/extract"
)

// Mermaid renders a flow as a Mermaid flowchart, suitable for embedding
// in GitHub/GitLab markdown.
type Mermaid struct {
	opts Options
}

// mermaidReserved are keywords that conflict with node IDs.
var mermaidReserved = map[string]bool{
	"end":       true,
	"graph":     true,
	"subgraph":  true,
	"direction": true,
	"click":     true,
	"style":     true,
	"class":     true,
}

var mermaidIDUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// MermaidSource returns the Mermaid text for a flow without writing a
// file. Used when the diagram is stored or embedded rather than saved.
func MermaidSource(flow extract.Flow, opts Options) string {
	m := Mermaid{opts: opts}
	return m.Source(flow)
}

// Render writes the flow as a .mmd file next to outPath.
func (m *Mermaid) Render(flow extract.Flow, outPath string) (string, error) {
	path := withSuffix(outPath, ".mmd")
	if err := os.WriteFile(path, []byte(m.Source(flow)), 0o644); err != nil {
		return "", fmt.Errorf("writing mermaid diagram: %w", err)
	}
	return path, nil
}

// Source returns the Mermaid flowchart text for a flow.
func (m *Mermaid) Source(flow extract.Flow) string {
	// Mermaid spells top-bottom as TD.
	direction := m.opts.Direction
	if direction == "TB" || direction == "" {
		direction = "TD"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "flowchart %s\n", direction)

	for _, step := range flow.Steps {
		id := mermaidID(step.Identifier)
		label := escapeMermaidLabel(step.Name)
		switch classify(step, flow.Edges) {
		case classDecision:
			fmt.Fprintf(&b, "    %s{%s}\n", id, label)
		case classTerminal:
			fmt.Fprintf(&b, "    %s([%s])\n", id, label)
		default:
			fmt.Fprintf(&b, "    %s[%s]\n", id, label)
		}
		if m.opts.IncludeDocstrings && step.Docstring != "" {
			for _, line := range strings.Split(step.Docstring, "\n") {
				fmt.Fprintf(&b, "    %%%% %s\n", line)
			}
		}
	}

	if len(flow.Edges) > 0 {
		b.WriteString("\n")
	}

	for _, edge := range flow.Edges {
		from := mermaidID(edge.Source)
		to := mermaidID(edge.Target)
		if label := branchLabel(edge.Branch); label != "" {
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", from, label, to)
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", from, to)
		}
	}

	return b.String()
}

// mermaidID sanitizes an identifier for use as a Mermaid node ID.
func mermaidID(name string) string {
	id := mermaidIDUnsafe.ReplaceAllString(name, "_")
	if mermaidReserved[strings.ToLower(id)] {
		id = "step_" + id
	}
	return id
}

// escapeMermaidLabel quotes labels containing characters with special
// meaning in Mermaid.
func escapeMermaidLabel(label string) string {
	if strings.ContainsAny(label, `[]{}()|"`) {
		return `"` + strings.ReplaceAll(label, `"`, "#quot;") + `"`
	}
	return label
}
