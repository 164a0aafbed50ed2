package animevent

import "sort"

// Registry is the set of event types the runtime knows how to play.
// Custom types outside the registry are allowed on clips; Unknown lists
// them so callers can warn about typos.
type Registry struct {
	types map[string]struct{}
}

// NewRegistry creates a registry of the given types.
func NewRegistry(types ...string) *Registry {
	r := &Registry{types: make(map[string]struct{}, len(types))}
	for _, t := range types {
		r.types[t] = struct{}{}
	}
	return r
}

// DefaultRegistry knows the types produced by the footstep generator.
func DefaultRegistry() *Registry {
	return NewRegistry(TypeFootstep, TypeFoley)
}

// Add registers another type.
func (r *Registry) Add(t string) {
	r.types[t] = struct{}{}
}

// Known reports whether t is registered.
func (r *Registry) Known(t string) bool {
	_, ok := r.types[t]
	return ok
}

// Unknown returns the sorted, distinct types in events that are not registered.
func (r *Registry) Unknown(events []Event) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range events {
		if r.Known(e.Type) {
			continue
		}
		if _, ok := seen[e.Type]; ok {
			continue
		}
		seen[e.Type] = struct{}{}
		out = append(out, e.Type)
	}
	sort.Strings(out)
	return out
}
