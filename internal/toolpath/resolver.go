package toolpath

import (
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LookupFunc locates a tool by name and returns an invocable path.
// exec.LookPath satisfies this signature.
type LookupFunc func(name string) (string, error)

// Resolver turns executable names into invocable paths using a host
// lookup function. A Resolver is safe for concurrent use.
type Resolver struct {
	lookup LookupFunc
	unix   bool

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]string
}

// NewResolver returns a Resolver backed by lookup. unix selects the
// POSIX resolution and quoting rules; when false, lookups for names
// without an extension are retried with an ".exe" suffix.
func NewResolver(lookup LookupFunc, unix bool) *Resolver {
	return &Resolver{
		lookup: lookup,
		unix:   unix,
		cache:  make(map[string]string),
	}
}

// Resolve returns the invocable path for name. When the lookup fails,
// for whatever reason, the literal input is returned unchanged so the
// failure surfaces at start time instead. Resolve never fails.
//
// Results are cached for the lifetime of the Resolver. Concurrent
// first calls for the same name share one lookup.
func (r *Resolver) Resolve(name string) string {
	r.mu.RLock()
	path, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return path
	}

	v, _, _ := r.group.Do(name, func() (any, error) {
		// A previous flight may have filled the cache between our
		// miss above and this call.
		r.mu.RLock()
		cached, ok := r.cache[name]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		resolved := r.resolveOnce(name)

		r.mu.Lock()
		r.cache[name] = resolved
		r.mu.Unlock()
		return resolved, nil
	})
	return v.(string)
}

// resolveOnce performs the uncached lookup sequence for name.
//
// Lookup implementations are allowed to return an error alongside a
// usable path (exec.LookPath does this for dot-relative results). Any
// error counts as not found here; returning the literal name leaves
// the dot-relative policy decision to os/exec at start time.
func (r *Resolver) resolveOnce(name string) string {
	if path, err := r.lookup(name); err == nil {
		return path
	}
	if !r.unix && filepath.Ext(name) == "" {
		if path, err := r.lookup(name + ".exe"); err == nil {
			return path
		}
	}
	return name
}
