// Package evalcontext holds the evaluation context threaded through a run:
// resolved parameter values and the most-recent result of every resource
// invoked so far, both addressable by the expression engine.
package evalcontext

import (
	"sync"

	"github.com/openconfigure/dsc-core/core"
)

// View is the read-only surface the expression engine is given. It never
// sees the mutation methods, so an engine implementation cannot grow the
// context it is evaluating against.
type View interface {
	Parameter(name string) (*core.Value, bool)
	Resource(name string) (*core.Value, bool)
}

// Context is the mutable evaluation context owned by an Orchestrator. No
// concurrent mutation is permitted on a single run (spec: the core is
// single-threaded and sequential); the mutex exists so an embedding
// application may still read context state from another goroutine, e.g.
// to drive a progress display, without racing the Orchestrator's own
// brief read/write sections.
type Context struct {
	mu         sync.RWMutex
	parameters map[string]*core.Value
	resources  map[string]*core.Value
}

// New creates an empty Context. It is grown monotonically over the
// lifetime of one run and discarded at the end.
func New() *Context {
	return &Context{
		parameters: map[string]*core.Value{},
		resources:  map[string]*core.Value{},
	}
}

// Parameter looks up a resolved parameter value by name.
func (c *Context) Parameter(name string) (*core.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.parameters[name]
	return value, ok
}

// Resource looks up the most recent result payload for a named resource.
func (c *Context) Resource(name string) (*core.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.resources[name]
	return value, ok
}

// SetParameter inserts or replaces a resolved parameter value.
func (c *Context) SetParameter(name string, value *core.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parameters[name] = value
}

// SetResourceResult inserts or replaces a resource's most recent result
// payload. Called by the Orchestrator after each resource invocation
// completes, never during.
func (c *Context) SetResourceResult(name string, value *core.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources[name] = value
}

// ParameterNames returns the names of every parameter currently resolved.
func (c *Context) ParameterNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.parameters))
	for name := range c.parameters {
		names = append(names, name)
	}
	return names
}
