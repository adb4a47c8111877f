package extract

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// writeTree writes the given files under a temp dir and returns the dir
// plus the sorted absolute paths, mirroring what discovery hands over.
func writeTree(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return dir, paths
}

func extractTree(t *testing.T, files map[string]string) *Result {
	t.Helper()
	dir, paths := writeTree(t, files)
	e := New(Options{SrcRoot: dir, MaxConcurrency: 2})
	result, err := e.Extract(context.Background(), paths)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	return result
}

const orderProcessorSrc = `from flowdoc import flow, step


@flow(name="Order Processing", description="Handle customer orders")
class OrderProcessor:
    @step(name="Receive Order")
    def receive_order(self):
        return self.validate_order()

    @step(name="Validate Order")
    def validate_order(self):
        if self.order_ok():
            return self.fulfill_order()
        else:
            return self.reject_order()

    @step(name="Fulfill Order")
    def fulfill_order(self):
        pass

    @step(name="Reject Order")
    def reject_order(self):
        pass

    def order_ok(self):
        return True
`

func TestExtractClassFlow(t *testing.T) {
	result := extractTree(t, map[string]string{"processor.py": orderProcessorSrc})

	if len(result.Flows) != 1 {
		t.Fatalf("got %d flows, want 1", len(result.Flows))
	}
	flow := result.Flows[0]
	if flow.Name != "Order Processing" {
		t.Errorf("Name = %q", flow.Name)
	}
	if flow.Kind != FlowClass {
		t.Errorf("Kind = %q, want class", flow.Kind)
	}
	if flow.Description != "Handle customer orders" {
		t.Errorf("Description = %q", flow.Description)
	}

	wantSteps := []string{"receive_order", "validate_order", "fulfill_order", "reject_order"}
	if len(flow.Steps) != len(wantSteps) {
		t.Fatalf("got %d steps, want %d", len(flow.Steps), len(wantSteps))
	}
	for i, w := range wantSteps {
		if flow.Steps[i].Identifier != w {
			t.Errorf("step %d = %q, want %q", i, flow.Steps[i].Identifier, w)
		}
	}

	type edge struct {
		source, target string
		branch         Branch
	}
	wantEdges := []edge{
		{"receive_order", "validate_order", BranchNone},
		{"validate_order", "fulfill_order", BranchThen},
		{"validate_order", "reject_order", BranchOtherwise},
	}
	if len(flow.Edges) != len(wantEdges) {
		t.Fatalf("got %d edges, want %d: %v", len(flow.Edges), len(wantEdges), flow.Edges)
	}
	for i, w := range wantEdges {
		e := flow.Edges[i]
		if e.Source != w.source || e.Target != w.target || e.Branch != w.branch {
			t.Errorf("edge %d = %+v, want %+v", i, e, w)
		}
	}
}

func TestExtractImplicitFunctionFlow(t *testing.T) {
	src := `
@step(name="Check Inventory")
def check_inventory(order):
    """Check if all items are in stock."""
    return verify_address(order)


@step(name="Verify Address")
def verify_address(order):
    pass
`
	result := extractTree(t, map[string]string{"validation.py": src})

	if len(result.Flows) != 1 {
		t.Fatalf("got %d flows, want 1", len(result.Flows))
	}
	flow := result.Flows[0]
	if flow.Kind != FlowFunction {
		t.Errorf("Kind = %q, want function", flow.Kind)
	}
	if flow.Name != "Function Flow" {
		t.Errorf("Name = %q", flow.Name)
	}
	if len(flow.Steps) != 2 {
		t.Fatalf("got %d steps", len(flow.Steps))
	}
	if flow.Steps[0].Docstring != "Check if all items are in stock." {
		t.Errorf("Docstring = %q", flow.Steps[0].Docstring)
	}
	if len(flow.Edges) != 1 || flow.Edges[0].Target != "verify_address" {
		t.Errorf("edges = %v", flow.Edges)
	}
}

func TestExtractCrossModuleResolution(t *testing.T) {
	result := extractTree(t, map[string]string{
		"orders/fulfillment.py": `
@step(name="Fulfill")
def fulfill(order):
    charge_card(order)
`,
		"payments/gateway.py": `
@step(name="Charge Card")
def charge_card(order):
    pass
`,
	})

	var fulfillment *Flow
	for i := range result.Flows {
		for _, s := range result.Flows[i].Steps {
			if s.Identifier == "fulfill" {
				fulfillment = &result.Flows[i]
			}
		}
	}
	if fulfillment == nil {
		t.Fatal("fulfillment flow not found")
	}
	if len(fulfillment.Edges) != 1 || fulfillment.Edges[0].Target != "charge_card" {
		t.Errorf("cross-module call not detected: %v", fulfillment.Edges)
	}
}

func TestExtractNoFlows(t *testing.T) {
	result := extractTree(t, map[string]string{"plain.py": "def nothing():\n    pass\n"})
	if len(result.Flows) != 0 {
		t.Errorf("got %d flows from untagged file", len(result.Flows))
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", result.Diagnostics)
	}
}

func TestExtractSyntaxErrorSkipped(t *testing.T) {
	result := extractTree(t, map[string]string{
		"broken.py": "def broken(:\n",
		"good.py": `
@step
def fine():
    pass
`,
	})

	if len(result.Flows) != 1 {
		t.Fatalf("got %d flows, want 1 from the good file", len(result.Flows))
	}
	found := false
	for _, d := range result.Diagnostics {
		if d.Severity == SeverityWarning && strings.Contains(d.Message, "skipping") {
			found = true
		}
	}
	if !found {
		t.Errorf("no skip warning emitted: %v", result.Diagnostics)
	}
}

func TestExtractNoInputFiles(t *testing.T) {
	e := New(Options{})
	result, err := e.Extract(context.Background(), nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(result.Flows) != 0 || len(result.Diagnostics) != 0 {
		t.Errorf("empty input produced output: %+v", result)
	}
}

func TestExtractSingleFileSyntaxErrorFatal(t *testing.T) {
	dir, paths := writeTree(t, map[string]string{"broken.py": "def broken(:\n"})
	e := New(Options{SrcRoot: dir})
	if _, err := e.Extract(context.Background(), paths); err == nil {
		t.Fatal("single unparsable input should fail")
	}
}

func TestExtractCanceledContext(t *testing.T) {
	dir, paths := writeTree(t, map[string]string{"a.py": "x = 1\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(Options{SrcRoot: dir})
	if _, err := e.Extract(ctx, paths); err == nil {
		t.Fatal("canceled context should abort extraction")
	}
}

func TestExtractProgressReported(t *testing.T) {
	var calls int
	var lastDone, lastTotal int
	dir, paths := writeTree(t, map[string]string{
		"a.py": "x = 1\n",
		"b.py": "y = 2\n",
	})
	e := New(Options{SrcRoot: dir, Progress: func(done, total int, path string) {
		calls++
		lastDone, lastTotal = done, total
	}})
	if _, err := e.Extract(context.Background(), paths); err != nil {
		t.Fatal(err)
	}
	if calls != 4 {
		t.Errorf("progress called %d times, want 4", calls)
	}
	if lastDone != 4 || lastTotal != 4 {
		t.Errorf("final progress %d/%d, want 4/4", lastDone, lastTotal)
	}
}

func TestModuleFromPath(t *testing.T) {
	tests := []struct {
		path, root, want string
	}{
		{"/src/orders/processor.py", "/src", "orders.processor"},
		{"/src/orders/__init__.py", "/src", "orders"},
		{"/src/main.py", "/src", "main"},
		{"/src/a/b/c.py", "/src", "a.b.c"},
		{"/elsewhere/x.py", "/src", "elsewhere.x"},
	}
	for _, tt := range tests {
		if got := moduleFromPath(tt.path, tt.root); got != tt.want {
			t.Errorf("moduleFromPath(%q, %q) = %q, want %q", tt.path, tt.root, got, tt.want)
		}
	}
}
