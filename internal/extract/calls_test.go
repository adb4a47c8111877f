package extract

import (
	"testing"
)

// stepCalls parses the snippet, takes the first collected step, and runs
// call detection over its body with every name considered known.
func stepCalls(t *testing.T, src string, known ...string) []Edge {
	t.Helper()
	f := parseSource(t, src)
	defs, _ := collectSteps(f)
	if len(defs) == 0 {
		t.Fatal("no steps collected")
	}
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}
	return findStepCalls(defs[0].fn, f, func(name string) bool { return knownSet[name] })
}

func TestFindStepCallsDirect(t *testing.T) {
	src := `
@step
def first():
    second()
    unknown()
    third()
`
	calls := stepCalls(t, src, "second", "third")
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2: %v", len(calls), calls)
	}
	if calls[0].Target != "second" || calls[1].Target != "third" {
		t.Errorf("targets = %q, %q", calls[0].Target, calls[1].Target)
	}
	for _, c := range calls {
		if c.Branch != BranchNone {
			t.Errorf("unconditional call labeled %q", c.Branch)
		}
	}
}

func TestFindStepCallsSelfMethod(t *testing.T) {
	src := `
class C:
    @step
    def first(self):
        self.second()
        other.second()
        helper.run()
`
	calls := stepCalls(t, src, "second", "run")
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1: %v", len(calls), calls)
	}
	if calls[0].Target != "second" {
		t.Errorf("target = %q, want second", calls[0].Target)
	}
}

func TestFindStepCallsBranches(t *testing.T) {
	src := `
@step
def first():
    if condition():
        approve()
    elif fallback():
        retry()
    else:
        reject()
    cleanup()
`
	calls := stepCalls(t, src, "approve", "retry", "reject", "cleanup", "condition", "fallback")
	want := []struct {
		target string
		branch Branch
	}{
		{"approve", BranchThen},
		{"retry", BranchThen},
		{"reject", BranchOtherwise},
		{"cleanup", BranchNone},
	}
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d: %v", len(calls), len(want), calls)
	}
	for i, w := range want {
		if calls[i].Target != w.target {
			t.Errorf("call %d target = %q, want %q", i, calls[i].Target, w.target)
		}
		if calls[i].Branch != w.branch {
			t.Errorf("call %d (%s) branch = %q, want %q", i, w.target, calls[i].Branch, w.branch)
		}
	}
}

func TestFindStepCallsConditionNotVisited(t *testing.T) {
	// condition() and fallback() are known steps, but calls inside the
	// condition expressions must not become edges.
	src := `
@step
def first():
    if condition():
        pass
    elif fallback():
        pass
`
	calls := stepCalls(t, src, "condition", "fallback")
	if len(calls) != 0 {
		t.Fatalf("condition calls leaked into edges: %v", calls)
	}
}

func TestFindStepCallsInnermostConditionalWins(t *testing.T) {
	src := `
@step
def first():
    if outer():
        if inner():
            deep()
        else:
            deep_else()
        after_inner()
`
	calls := stepCalls(t, src, "deep", "deep_else", "after_inner")
	want := map[string]Branch{
		"deep":        BranchThen,
		"deep_else":   BranchOtherwise,
		"after_inner": BranchThen, // back under the outer conditional
	}
	if len(calls) != 3 {
		t.Fatalf("got %d calls, want 3: %v", len(calls), calls)
	}
	for _, c := range calls {
		if c.Branch != want[c.Target] {
			t.Errorf("%s branch = %q, want %q", c.Target, c.Branch, want[c.Target])
		}
	}
}

func TestFindStepCallsAwait(t *testing.T) {
	src := `
@step
async def first():
    await second()
    result = await self.third()
`
	calls := stepCalls(t, src, "second", "third")
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2: %v", len(calls), calls)
	}
	if calls[0].Target != "second" || calls[1].Target != "third" {
		t.Errorf("targets = %v", calls)
	}
	for _, c := range calls {
		if c.Branch != BranchNone {
			t.Errorf("await call labeled %q", c.Branch)
		}
	}
}

func TestFindStepCallsNestedInArguments(t *testing.T) {
	src := `
@step
def first():
    log(second())
`
	calls := stepCalls(t, src, "second")
	if len(calls) != 1 || calls[0].Target != "second" {
		t.Fatalf("call in argument position missed: %v", calls)
	}
}

func TestFindStepCallsLineNumbers(t *testing.T) {
	src := `
@step
def first():
    second()
`
	calls := stepCalls(t, src, "second")
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if calls[0].Line != 4 {
		t.Errorf("Line = %d, want 4", calls[0].Line)
	}
}
