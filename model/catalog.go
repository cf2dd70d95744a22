package model

import (
	"fmt"
	"strings"
	"sync"
)

// Resolver maps a model identifier to a Model. An empty identifier selects
// the resolver's default.
type Resolver interface {
	Resolve(name string) (Model, error)
}

// Factory constructs a Model for the given identifier.
type Factory func(name string) (Model, error)

// UnknownModelError is returned when no registered provider claims an identifier.
type UnknownModelError struct {
	Name string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("no provider registered for model %q", e.Name)
}

type provider struct {
	prefixes []string
	factory  Factory
}

// Catalog resolves identifiers by prefix to provider factories and caches
// the constructed models. Providers are matched in registration order.
type Catalog struct {
	defaultName string

	mu        sync.Mutex
	providers []provider
	cache     map[string]Model
}

// NewCatalog creates a catalog whose empty identifier resolves to defaultName.
func NewCatalog(defaultName string) *Catalog {
	return &Catalog{defaultName: defaultName, cache: map[string]Model{}}
}

// Register adds a provider factory claiming identifiers with any of the
// given prefixes. An empty prefix matches every identifier.
func (c *Catalog) Register(factory Factory, prefixes ...string) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(prefixes) == 0 {
		prefixes = []string{""}
	}

	c.providers = append(c.providers, provider{prefixes: prefixes, factory: factory})

	return c
}

// Default returns the identifier used when Resolve receives an empty name.
func (c *Catalog) Default() string { return c.defaultName }

// Resolve implements Resolver.
func (c *Catalog) Resolve(name string) (Model, error) {
	if name == "" {
		name = c.defaultName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.cache[name]; ok {
		return m, nil
	}

	for _, p := range c.providers {
		for _, prefix := range p.prefixes {
			if !strings.HasPrefix(name, prefix) {
				continue
			}

			m, err := p.factory(name)
			if err != nil {
				return nil, fmt.Errorf("create model %s: %w", name, err)
			}

			c.cache[name] = m

			return m, nil
		}
	}

	return nil, &UnknownModelError{Name: name}
}

// Static returns a Factory that always yields m regardless of identifier.
func Static(m Model) Factory {
	return func(string) (Model, error) { return m, nil }
}
