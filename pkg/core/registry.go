// pkg/core/registry.go
package core

import (
	"sync"

	"github.com/joeydtaylor/flint-core/pkg/funcs"
)

// Registry maps function names to wrapped functions. It is an explicit,
// caller-owned table so tests can run against isolated instances; the
// process-wide Default exists for declarative registration.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]funcs.Wrapped
}

func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]funcs.Wrapped)}
}

// Register stores a wrapped function under name. Last write wins;
// entries persist for the process lifetime.
func (r *Registry) Register(name string, fn funcs.Wrapped) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[name] = fn
}

// Lookup retrieves a wrapped function by exact name.
func (r *Registry) Lookup(name string) (funcs.Wrapped, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[name]
	return fn, ok
}

// Names returns the registered function names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.fns))
	for n := range r.fns {
		out = append(out, n)
	}
	return out
}

// Default is the process-wide registry used when an Invoker is built
// without an explicit one.
var Default = NewRegistry()

// Register stores a wrapped function in the Default registry under a
// name referenced in the manifest.
func Register(name string, fn funcs.Wrapped) { Default.Register(name, fn) }

// Lookup retrieves from the Default registry.
func Lookup(name string) (funcs.Wrapped, bool) { return Default.Lookup(name) }
