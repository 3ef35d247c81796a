// Package container implements the dependency-lookup service shared with
// container-aware analyzers. It is a deliberately small provider registry,
// not a full dependency-injection framework: named values, lazily resolved
// constructors, and lookup.
package container

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor builds a provided value on first lookup.
type Constructor func() (any, error)

// NotFoundError reports a lookup of a name no provider was registered for.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no provider registered for %q", e.Name)
}

type provider struct {
	value any
	ctor  Constructor
	once  sync.Once
	err   error
}

// Container holds named providers.
type Container struct {
	mu        sync.RWMutex
	providers map[string]*provider
}

// New creates an empty Container.
func New() *Container {
	return &Container{providers: make(map[string]*provider)}
}

// Provide registers a ready value under the given name, replacing any
// existing provider.
func (c *Container) Provide(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[name] = &provider{value: value}
}

// ProvideFunc registers a constructor resolved once, on first lookup.
func (c *Container) ProvideFunc(name string, ctor Constructor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[name] = &provider{ctor: ctor}
}

// Lookup returns the value registered under name. Constructor providers
// are resolved exactly once; a constructor error makes the lookup miss.
func (c *Container) Lookup(name string) (any, bool) {
	c.mu.RLock()
	p, ok := c.providers[name]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if p.ctor != nil {
		p.once.Do(func() {
			p.value, p.err = p.ctor()
		})
		if p.err != nil {
			return nil, false
		}
	}
	return p.value, true
}

// Resolve is Lookup with a typed miss: it returns a NotFoundError that
// the wiring analyzer knows how to diagnose.
func (c *Container) Resolve(name string) (any, error) {
	v, ok := c.Lookup(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return v, nil
}

// Names returns all provider names, sorted.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.providers))
	for name := range c.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
