package validate

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/flowdoc/internal/extract"
)

func findMessage(msgs []Message, substr string) *Message {
	for i := range msgs {
		if strings.Contains(msgs[i].Text, substr) {
			return &msgs[i]
		}
	}
	return nil
}

func TestCheckCleanFlow(t *testing.T) {
	flow := extract.Flow{
		Name: "Order Processing",
		Steps: []extract.Step{
			{Name: "Receive", Identifier: "receive"},
			{Name: "Validate", Identifier: "validate"},
			{Name: "Fulfill", Identifier: "fulfill"},
		},
		Edges: []extract.Edge{
			{Source: "receive", Target: "validate"},
			{Source: "validate", Target: "fulfill", Branch: extract.BranchThen},
		},
	}

	v := &Validator{}
	if msgs := v.Check(flow); len(msgs) != 0 {
		t.Errorf("clean flow produced findings: %v", msgs)
	}
}

func TestCheckEmptyFlow(t *testing.T) {
	v := &Validator{}
	msgs := v.Check(extract.Flow{Name: "Empty"})
	if len(msgs) != 1 || msgs[0].Severity != extract.SeverityWarning {
		t.Fatalf("msgs = %v, want single warning", msgs)
	}
	if !strings.Contains(msgs[0].Text, "no steps") {
		t.Errorf("Text = %q", msgs[0].Text)
	}
}

func TestCheckUnknownEdgeSource(t *testing.T) {
	flow := extract.Flow{
		Name: "Broken",
		Steps: []extract.Step{
			{Name: "A", Identifier: "a"},
		},
		Edges: []extract.Edge{
			{Source: "ghost", Target: "a"},
		},
	}

	v := &Validator{}
	msg := findMessage(v.Check(flow), `edge source "ghost"`)
	if msg == nil {
		t.Fatal("unknown edge source not flagged")
	}
	if msg.Severity != extract.SeverityError {
		t.Errorf("Severity = %q, want error", msg.Severity)
	}
}

func TestCheckExternalTargetNotFlagged(t *testing.T) {
	// A target outside the flow may be a step in another module.
	flow := extract.Flow{
		Name: "CrossModule",
		Steps: []extract.Step{
			{Name: "A", Identifier: "a"},
		},
		Edges: []extract.Edge{
			{Source: "a", Target: "elsewhere"},
		},
	}

	v := &Validator{}
	if msgs := v.Check(flow); len(msgs) != 0 {
		t.Errorf("external target flagged: %v", msgs)
	}
}

func TestCheckDuplicateDisplayNames(t *testing.T) {
	flow := extract.Flow{
		Name: "Dupes",
		Steps: []extract.Step{
			{Name: "Process", Identifier: "process_a"},
			{Name: "Process", Identifier: "process_b"},
		},
		Edges: []extract.Edge{
			{Source: "process_a", Target: "process_b"},
		},
	}

	v := &Validator{}
	msg := findMessage(v.Check(flow), "share the display name")
	if msg == nil {
		t.Fatal("duplicate display names not flagged")
	}
	if msg.Severity != extract.SeverityWarning {
		t.Errorf("Severity = %q, want warning", msg.Severity)
	}
}

func TestCheckDisconnectedStep(t *testing.T) {
	flow := extract.Flow{
		Name: "Island",
		Steps: []extract.Step{
			{Name: "A", Identifier: "a"},
			{Name: "B", Identifier: "b"},
			{Name: "Lonely", Identifier: "lonely"},
		},
		Edges: []extract.Edge{
			{Source: "a", Target: "b"},
		},
	}

	v := &Validator{}
	if findMessage(v.Check(flow), `"lonely" is not connected`) == nil {
		t.Error("disconnected step not flagged")
	}
}

func TestCheckUnreachableStep(t *testing.T) {
	flow := extract.Flow{
		Name: "Unreachable",
		Steps: []extract.Step{
			{Name: "A", Identifier: "a"},
			{Name: "B", Identifier: "b"},
			{Name: "C", Identifier: "c"},
		},
		Edges: []extract.Edge{
			{Source: "a", Target: "b"},
			{Source: "c", Target: "b"},
		},
	}

	v := &Validator{}
	msg := findMessage(v.Check(flow), `"c" is never called`)
	if msg == nil {
		t.Fatal("unreachable step not flagged")
	}
	if msg.Severity != extract.SeverityWarning {
		t.Errorf("Severity = %q", msg.Severity)
	}
}

func TestCheckSingleStepFlowQuiet(t *testing.T) {
	flow := extract.Flow{
		Name:  "Solo",
		Steps: []extract.Step{{Name: "Only", Identifier: "only"}},
	}
	v := &Validator{}
	if msgs := v.Check(flow); len(msgs) != 0 {
		t.Errorf("single-step flow produced findings: %v", msgs)
	}
}
