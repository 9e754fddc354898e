// Package report renders validation outcomes and puzzle reports for humans
// and machines.
package report

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/gyaneshwarpardhi/circuitlab/internal/engine"
)

// Renderer is the interface all output formats must satisfy.
type Renderer interface {
	// Name returns the string key this renderer is registered under.
	Name() string
	// Outcome writes a single validation outcome.
	Outcome(w io.Writer, o *engine.Outcome) error
	// Puzzles writes the result of checking a library.
	Puzzles(w io.Writer, reports []engine.PuzzleReport) error
}

// Registry maps format names to renderers.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Default returns a registry holding the json, yaml and text renderers.
func Default() *Registry {
	r := NewRegistry()
	r.Register(JSON{})
	r.Register(YAML{})
	r.Register(Text{})
	return r
}

// Register adds a renderer. Panics on duplicate names to surface
// misconfiguration early.
func (r *Registry) Register(rd Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[rd.Name()]; exists {
		panic(fmt.Sprintf("report registry: duplicate format %q", rd.Name()))
	}
	r.renderers[rd.Name()] = rd
}

// Get returns the renderer for the given format.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rd, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (have %v)", name, r.namesLocked())
	}
	return rd, nil
}

// Names returns all registered format names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	out := make([]string, 0, len(r.renderers))
	for k := range r.renderers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
