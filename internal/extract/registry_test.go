package extract

import "testing"

func TestRegistryResolveExactQualified(t *testing.T) {
	r := NewRegistry()
	r.Register("orders.validation", Step{Name: "Check Inventory", Identifier: "check_inventory"})

	s, ok := r.Resolve("anything", "orders.validation.check_inventory")
	if !ok {
		t.Fatal("exact qualified name did not resolve")
	}
	if s.Name != "Check Inventory" {
		t.Errorf("Name = %q", s.Name)
	}
}

func TestRegistryResolveSameModule(t *testing.T) {
	r := NewRegistry()
	r.Register("orders.validation", Step{Identifier: "verify_address"})
	r.Register("payments.gateway", Step{Identifier: "process_payment"})

	if _, ok := r.Resolve("orders.validation", "verify_address"); !ok {
		t.Error("same-module bare name did not resolve")
	}
	if _, ok := r.Resolve("payments.gateway", "verify_address"); !ok {
		t.Error("suffix fallback should find verify_address from another module")
	}
	if _, ok := r.Resolve("orders.validation", "missing"); ok {
		t.Error("unknown name resolved")
	}
}

func TestRegistryResolveSuffixOrder(t *testing.T) {
	// Two modules register a step with the same identifier. The suffix
	// fallback must pick the earlier registration.
	r := NewRegistry()
	r.Register("alpha.tasks", Step{Name: "Alpha Cleanup", Identifier: "cleanup"})
	r.Register("beta.tasks", Step{Name: "Beta Cleanup", Identifier: "cleanup"})

	s, ok := r.Resolve("gamma.other", "cleanup")
	if !ok {
		t.Fatal("suffix fallback failed")
	}
	if s.Name != "Alpha Cleanup" {
		t.Errorf("resolved %q, want the first-registered step", s.Name)
	}

	// A caller in beta.tasks gets its own step via rule 2 before the
	// fallback can fire.
	s, _ = r.Resolve("beta.tasks", "cleanup")
	if s.Name != "Beta Cleanup" {
		t.Errorf("same-module resolution returned %q", s.Name)
	}
}

func TestRegistrySuffixIsSegmentAligned(t *testing.T) {
	r := NewRegistry()
	r.Register("orders", Step{Identifier: "process_payment"})

	// "payment" is a substring of the identifier but not a full trailing
	// segment; it must not match.
	if _, ok := r.Resolve("other", "payment"); ok {
		t.Error("partial identifier matched via suffix fallback")
	}
}

func TestRegistryRegisterOverwrite(t *testing.T) {
	r := NewRegistry()
	r.Register("m", Step{Name: "old", Identifier: "s"})
	r.Register("m", Step{Name: "new", Identifier: "s"})

	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
	s, _ := r.Resolve("m", "s")
	if s.Name != "new" {
		t.Errorf("Name = %q, want new (last write wins)", s.Name)
	}
}

func TestRegistryStepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("a", Step{Identifier: "one"})
	r.Register("b", Step{Identifier: "two"})
	r.Register("a", Step{Identifier: "three"})

	steps := r.Steps()
	if len(steps) != 3 {
		t.Fatalf("got %d steps", len(steps))
	}
	got := []string{steps[0].Identifier, steps[1].Identifier, steps[2].Identifier}
	want := []string{"one", "two", "three"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("steps[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	mods := r.Modules("a")
	if len(mods) != 2 || mods[0] != "a.one" || mods[1] != "a.three" {
		t.Errorf("Modules(a) = %v", mods)
	}
}
