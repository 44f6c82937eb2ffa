package adapter

import "strings"

// Registry maps lowercase platform names to their adapter instances.
// Adapters are constructed explicitly at startup and injected; there are
// no package-level singletons.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[strings.ToLower(a.Name())] = a
	}
	return r
}

// Resolve returns the adapter for the given platform name, matched
// case-insensitively, or nil when the platform is not registered.
// Callers must check for nil before use.
func (r *Registry) Resolve(platformName string) Adapter {
	return r.adapters[strings.ToLower(strings.TrimSpace(platformName))]
}

// All returns every registered adapter.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	return out
}
