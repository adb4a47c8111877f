package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/flowdoc/internal/extract"
)

// HTML renders a flow as a standalone page: the Mermaid diagram rendered
// client-side, with step docstrings converted from markdown.
type HTML struct {
	opts Options
}

type htmlStep struct {
	Name        string
	Identifier  string
	Description string
	Doc         template.HTML
}

type htmlPage struct {
	Title       string
	Description string
	Mermaid     string
	Steps       []htmlStep
}

// Render writes the flow as an .html file next to outPath.
func (h *HTML) Render(flow extract.Flow, outPath string) (string, error) {
	path := withSuffix(outPath, ".html")

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	page := htmlPage{
		Title:       flow.Name,
		Description: flow.Description,
		Mermaid:     (&Mermaid{opts: h.opts}).Source(flow),
	}

	for _, step := range flow.Steps {
		s := htmlStep{
			Name:        step.Name,
			Identifier:  step.Identifier,
			Description: step.Description,
		}
		if h.opts.IncludeDocstrings && step.Docstring != "" {
			var buf bytes.Buffer
			if err := md.Convert([]byte(step.Docstring), &buf); err != nil {
				return "", fmt.Errorf("rendering docstring for %s: %w", step.Identifier, err)
			}
			s.Doc = template.HTML(buf.String())
		}
		page.Steps = append(page.Steps, s)
	}

	tmpl, err := template.New("flow").Parse(flowPageTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing flow page template: %w", err)
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, page); err != nil {
		return "", fmt.Errorf("rendering flow page: %w", err)
	}
	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing flow page: %w", err)
	}
	return path, nil
}

const flowPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>
<style>
body { font-family: -apple-system, sans-serif; max-width: 900px; margin: 2rem auto; padding: 0 1rem; color: #24292f; }
h1 { border-bottom: 1px solid #d0d7de; padding-bottom: .3rem; }
.step { margin: 1rem 0; padding: .75rem 1rem; border: 1px solid #d0d7de; border-radius: 6px; }
.step h3 { margin: 0 0 .25rem; }
.step code { background: #f6f8fa; padding: .1rem .3rem; border-radius: 4px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Description}}<p>{{.Description}}</p>{{end}}
<pre class="mermaid">
{{.Mermaid}}</pre>
<h2>Steps</h2>
{{range .Steps}}
<div class="step">
<h3>{{.Name}} <code>{{.Identifier}}</code></h3>
{{if .Description}}<p>{{.Description}}</p>{{end}}
{{.Doc}}
</div>
{{end}}
</body>
</html>
`
