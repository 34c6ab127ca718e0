package provider

import (
	"context"
	"strings"

	"github.com/openconfigure/dsc-core/errors"
)

// StaticRegistry is an in-memory Discovery backed by a fixed mapping from
// lower-cased type name to Provider, supplied up front. It is useful for
// tests and for embedders that resolve their provider set eagerly rather
// than through an external discovery mechanism.
type StaticRegistry struct {
	providers map[string]Provider
}

// NewStaticRegistry builds a StaticRegistry from a mapping keyed by type
// name in any casing; keys are normalised to lower case.
func NewStaticRegistry(providers map[string]Provider) *StaticRegistry {
	normalised := make(map[string]Provider, len(providers))
	for typeName, p := range providers {
		normalised[strings.ToLower(typeName)] = p
	}
	return &StaticRegistry{providers: normalised}
}

// Discover verifies that every requested type is registered, returning a
// resolution error naming the first unregistered type it finds.
func (r *StaticRegistry) Discover(_ context.Context, lowercaseTypeNames []string) error {
	for _, typeName := range lowercaseTypeNames {
		if _, ok := r.providers[typeName]; !ok {
			return errors.ResourceNotFound(typeName)
		}
	}
	return nil
}

// Find implements Discovery.
func (r *StaticRegistry) Find(lowercaseType string) (Provider, bool) {
	p, ok := r.providers[lowercaseType]
	return p, ok
}
