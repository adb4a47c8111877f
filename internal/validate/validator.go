// Package validate runs consistency checks over extracted flows. It
// consumes flows read-only and reports findings; nothing here mutates or
// re-resolves the graph.
package validate

import (
	"fmt"

	"github.com/ziadkadry99/flowdoc/internal/extract"
)

// Message is one severity-tagged validation finding.
type Message struct {
	Severity extract.Severity `json:"severity"`
	Text     string           `json:"text"`
}

// Validator checks flows for structural problems.
type Validator struct{}

// Check inspects one flow and returns its findings. An empty slice means
// the flow passed every check.
func (v *Validator) Check(flow extract.Flow) []Message {
	var msgs []Message

	if len(flow.Steps) == 0 {
		msgs = append(msgs, Message{
			Severity: extract.SeverityWarning,
			Text:     "flow has no steps",
		})
		return msgs
	}

	known := make(map[string]bool, len(flow.Steps))
	incoming := make(map[string]int)
	outgoing := make(map[string]int)
	for _, s := range flow.Steps {
		known[s.Identifier] = true
	}
	for _, e := range flow.Edges {
		incoming[e.Target]++
		outgoing[e.Source]++
	}

	// Every edge must originate at one of the flow's own steps. Targets
	// may legitimately live in another module, so they are not flagged.
	for _, e := range flow.Edges {
		if !known[e.Source] {
			msgs = append(msgs, Message{
				Severity: extract.SeverityError,
				Text:     fmt.Sprintf("edge source %q is not a step in this flow", e.Source),
			})
		}
	}

	seenNames := make(map[string]string, len(flow.Steps))
	for _, s := range flow.Steps {
		if prev, dup := seenNames[s.Name]; dup {
			msgs = append(msgs, Message{
				Severity: extract.SeverityWarning,
				Text:     fmt.Sprintf("steps %q and %q share the display name %q", prev, s.Identifier, s.Name),
			})
		} else {
			seenNames[s.Name] = s.Identifier
		}
	}

	if len(flow.Steps) > 1 {
		for i, s := range flow.Steps {
			if incoming[s.Identifier] == 0 && outgoing[s.Identifier] == 0 {
				msgs = append(msgs, Message{
					Severity: extract.SeverityWarning,
					Text:     fmt.Sprintf("step %q is not connected to any other step", s.Identifier),
				})
				continue
			}
			// The first step is the natural entry point; anything else
			// without an incoming edge is unreachable from it.
			if i > 0 && incoming[s.Identifier] == 0 {
				msgs = append(msgs, Message{
					Severity: extract.SeverityWarning,
					Text:     fmt.Sprintf("step %q is never called by another step", s.Identifier),
				})
			}
		}
	}

	return msgs
}
