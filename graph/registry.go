package graph

import (
	"errors"
	"fmt"
)

// Factory builds one Runtime instance for a node.
type Factory func(ctx Context) (Runtime, error)

// ErrUnknownNodeKind is returned when a node references an unregistered
// kind.
var ErrUnknownNodeKind = errors.New("unknown node kind")

var errDuplicateNodeKind = errors.New("duplicate node kind")

// Registry maps node kinds to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given node kind.
func (r *Registry) Register(kind string, factory Factory) error {
	if kind == "" {
		return errors.New("empty node kind")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %s", errDuplicateNodeKind, kind)
	}

	r.factories[kind] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind string, factory Factory) {
	err := r.Register(kind, factory)
	if err != nil {
		panic("graph registry: " + err.Error())
	}
}

// Lookup returns the factory for the given node kind, or nil.
func (r *Registry) Lookup(kind string) Factory {
	return r.factories[kind]
}
