// Package render turns extracted flows into diagram files.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ziadkadry99/flowdoc/internal/extract"
)

// Renderer renders one flow to the given output path (extension may be
// adjusted per format) and returns the path actually written.
type Renderer interface {
	Render(flow extract.Flow, outPath string) (string, error)
}

// Options are shared renderer settings.
type Options struct {
	// Direction is the layout direction, "TB" or "LR".
	Direction string
	// IncludeDocstrings embeds step docstrings where the format allows.
	IncludeDocstrings bool
}

// New returns a renderer for the given format. Formats needing an
// external graphviz backend are reported as such rather than silently
// producing nothing.
func New(format string, opts Options) (Renderer, error) {
	switch format {
	case "mermaid":
		return &Mermaid{opts: opts}, nil
	case "dot":
		return &Dot{opts: opts}, nil
	case "html":
		return &HTML{opts: opts}, nil
	case "png", "svg", "pdf":
		return nil, fmt.Errorf("%s output requires a graphviz backend; use --format dot and render externally, or --format mermaid", format)
	default:
		return nil, fmt.Errorf("unsupported format %q: supported formats are mermaid, dot, html", format)
	}
}

// classification buckets a step by its outgoing edge count.
type classification int

const (
	classRegular classification = iota
	classDecision
	classTerminal
)

// classify inspects a step's outgoing edges within the flow: no outgoing
// edges is a terminal, two or more is a decision.
func classify(step extract.Step, edges []extract.Edge) classification {
	outgoing := 0
	for _, e := range edges {
		if e.Source == step.Identifier {
			outgoing++
		}
	}
	switch {
	case outgoing == 0:
		return classTerminal
	case outgoing >= 2:
		return classDecision
	default:
		return classRegular
	}
}

// branchLabel converts a branch tag to the label drawn on the edge.
func branchLabel(branch extract.Branch) string {
	switch branch {
	case extract.BranchThen:
		return "yes"
	case extract.BranchOtherwise:
		return "no"
	default:
		return ""
	}
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s-]+`)
)

// Slugify converts a flow name to a filesystem-safe lowercase slug.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugCollapse.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}

// withSuffix replaces any extension on path with the given suffix.
func withSuffix(path, suffix string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexAny(path, `/\`) {
		path = path[:i]
	}
	return path + suffix
}
