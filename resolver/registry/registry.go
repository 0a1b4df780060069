// Package registry maps resolver unit identifiers to constructors.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/LegacyCodeHQ/projectimport/resolver"
	"github.com/LegacyCodeHQ/projectimport/resolver/units/base"
	"github.com/LegacyCodeHQ/projectimport/resolver/units/externalproject"
	"github.com/LegacyCodeHQ/projectimport/resolver/units/java"
)

var (
	ErrUnknownExtension = errors.New("unknown resolver extension")
	ErrNoExtensions     = errors.New("no resolver extensions configured")
	ErrTerminalNotLast  = resolver.ErrTerminalNotLast
)

// DefaultExtensions is the chain used when the settings name none.
var DefaultExtensions = []string{java.ID, externalproject.ID, resolver.BaseID}

// Factory creates a fresh unit for one chain.
type Factory func() resolver.Unit

// Describer is implemented by units that explain themselves in listings.
type Describer interface {
	Description() string
}

// Registry holds unit constructors in registration order.
type Registry struct {
	ids       []string
	factories map[string]Factory
}

func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Default returns a registry with every built-in unit.
func Default() *Registry {
	r := New()
	r.Register(java.ID, java.New)
	r.Register(externalproject.ID, externalproject.New)
	r.Register(resolver.BaseID, base.New)
	return r
}

// Register adds a constructor. Registering an id twice panics.
func (r *Registry) Register(id string, factory Factory) {
	if _, exists := r.factories[id]; exists {
		panic(fmt.Sprintf("registry: extension %q registered twice", id))
	}
	r.ids = append(r.ids, id)
	r.factories[id] = factory
}

// IDs returns the registered identifiers in registration order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.ids)
}

// Describe returns the description of a registered unit, if it has one.
func (r *Registry) Describe(id string) (string, bool) {
	factory, ok := r.factories[id]
	if !ok {
		return "", false
	}
	if d, ok := factory().(Describer); ok {
		return d.Description(), true
	}
	return "", true
}

// Build instantiates the units named by ids, in order, and composes them into
// a chain. The order is validated before any unit is created.
func (r *Registry) Build(ids []string) (*resolver.Chain, error) {
	if len(ids) == 0 {
		return nil, ErrNoExtensions
	}
	if last := ids[len(ids)-1]; last != resolver.BaseID {
		return nil, fmt.Errorf("%w: configured chain ends with %q", ErrTerminalNotLast, last)
	}

	var unknown []string
	for _, id := range ids {
		if _, ok := r.factories[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s; registered extensions: [%s]",
			ErrUnknownExtension, strings.Join(unknown, ", "), strings.Join(r.ids, ", "))
	}

	units := make([]resolver.Unit, 0, len(ids))
	for _, id := range ids {
		units = append(units, r.factories[id]())
	}
	return resolver.NewChain(units)
}
