// Package di is a small service container with typed tokens.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry resolves registered services.
type ServiceRegistry interface {
	Get(key string) any
}

// Container registers services and lazily builds token factories.
type Container interface {
	ServiceRegistry
	Register(key string, value any)
	RegisterFactory(key string, factory func(ServiceRegistry) any)
}

type container struct {
	mu        sync.Mutex
	values    map[string]any
	factories map[string]func(ServiceRegistry) any
	building  map[string]bool
}

// NewContainer returns an empty container.
func NewContainer() Container {
	return &container{
		values:    make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
		building:  make(map[string]bool),
	}
}

func (c *container) Register(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *container) RegisterFactory(key string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[key] = factory
}

// Get returns the service for key, building it on first use.
// Panics on unknown keys and dependency cycles.
func (c *container) Get(key string) any {
	c.mu.Lock()
	if v, ok := c.values[key]; ok {
		c.mu.Unlock()
		return v
	}
	factory, ok := c.factories[key]
	if !ok {
		c.mu.Unlock()
		panic(fmt.Sprintf("di: service %q not registered", key))
	}
	if c.building[key] {
		c.mu.Unlock()
		panic(fmt.Sprintf("di: dependency cycle on %q", key))
	}
	c.building[key] = true
	c.mu.Unlock()

	v := factory(c)

	c.mu.Lock()
	delete(c.building, key)
	c.values[key] = v
	c.mu.Unlock()
	return v
}

// Token is a typed service key.
type Token[T any] struct {
	key string
}

// NewToken creates a token for key.
func NewToken[T any](key string) Token[T] {
	return Token[T]{key: key}
}

// Key returns the registry key.
func (t Token[T]) Key() string {
	return t.key
}

// RegisterToken registers a typed factory.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.key, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a typed service. A factory may return nil for an
// optional service, which yields the zero value of T.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	v := sr.Get(token.key)
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
