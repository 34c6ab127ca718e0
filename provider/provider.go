// Package provider defines the contracts the orchestrator consumes to
// dispatch resource operations and to discover which provider handles a
// given resource type. No concrete provider implementation ships with
// this module: invocation transport (in-process, subprocess, RPC) is an
// external concern.
package provider

import (
	"context"

	"github.com/openconfigure/dsc-core/core"
)

// Provider implements the four lifecycle operations for one resource
// type. Every method receives already-evaluated property values (the
// orchestrator runs the Property Walker before calling a provider).
type Provider interface {
	// Get returns the current state of a resource instance matching
	// filter, or the default instance when filter is empty.
	Get(ctx context.Context, filter *core.Value) (*core.Value, error)

	// Set drives the resource instance described by desired toward that
	// state, returning the resulting state. When skipTest is true the
	// provider may skip its own pre-check and apply unconditionally.
	Set(ctx context.Context, desired *core.Value, skipTest bool) (*core.Value, error)

	// Test reports whether the resource instance already matches
	// expected, returning the provider's comparison result payload.
	Test(ctx context.Context, expected *core.Value) (*core.Value, error)

	// Export enumerates every actual instance of the resource type the
	// provider manages, seeded by input (which may be empty).
	Export(ctx context.Context, input *core.Value) ([]*core.Value, error)
}

// Discovery locates the Provider responsible for a resource type. Type
// names passed to Discover and Find are always already lower-cased by
// the caller; Discovery itself performs no case normalisation.
type Discovery interface {
	// Discover resolves and caches providers for the given set of
	// lower-cased, deduplicated type names. Called at most once per
	// orchestrator operation for a given configuration's resource types.
	Discover(ctx context.Context, lowercaseTypeNames []string) error

	// Find returns the provider registered for a lower-cased type name,
	// or false if Discover never resolved one.
	Find(lowercaseType string) (Provider, bool)
}
