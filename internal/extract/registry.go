package extract

import "strings"

// Registry is the cross-file symbol table mapping qualified step names
// (modulePath + "." + identifier) to extracted steps. It is built during
// pass 1 and read-only during pass 2, so resolution needs no locking.
type Registry struct {
	steps    map[string]Step
	order    []string
	byModule map[string][]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		steps:    make(map[string]Step),
		byModule: make(map[string][]string),
	}
}

// Register inserts a step under modulePath + "." + identifier. Repeated
// registration of the same key overwrites the value (last write wins)
// without disturbing the original registration order; this should not
// occur under a correct single-pass build.
func (r *Registry) Register(modulePath string, s Step) {
	qualified := modulePath + "." + s.Identifier
	if _, exists := r.steps[qualified]; !exists {
		r.order = append(r.order, qualified)
		r.byModule[modulePath] = append(r.byModule[modulePath], qualified)
	}
	r.steps[qualified] = s
}

// Resolve maps a called name to a registered step. Resolution order:
//
//  1. calledName as an exact qualified key
//  2. fromModule + "." + calledName
//  3. the first registered key whose trailing segment equals calledName
//
// Rule 3 is deliberately permissive and registration-order dependent;
// registration order is fixed by sorted file path upstream so results
// are reproducible. A same-named step in an unrelated module can still
// win — callers wanting stricter matching must qualify the name.
func (r *Registry) Resolve(fromModule, calledName string) (Step, bool) {
	if s, ok := r.steps[calledName]; ok {
		return s, true
	}
	if s, ok := r.steps[fromModule+"."+calledName]; ok {
		return s, true
	}
	suffix := "." + calledName
	for _, qualified := range r.order {
		if strings.HasSuffix(qualified, suffix) {
			return r.steps[qualified], true
		}
	}
	return Step{}, false
}

// Steps returns all registered steps in registration order.
func (r *Registry) Steps() []Step {
	out := make([]Step, 0, len(r.order))
	for _, qualified := range r.order {
		out = append(out, r.steps[qualified])
	}
	return out
}

// Modules returns the qualified names registered by the given module.
func (r *Registry) Modules(modulePath string) []string {
	return r.byModule[modulePath]
}

// Len returns the number of registered steps.
func (r *Registry) Len() int {
	return len(r.steps)
}
