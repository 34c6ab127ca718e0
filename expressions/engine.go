// Package expressions defines the contract the orchestrator core uses to
// evaluate bracketed statements, and a default implementation covering
// the reference(...) and parameter(...) forms.
package expressions

import (
	"context"

	"github.com/openconfigure/dsc-core/evalcontext"
)

// Engine is the pure function (text, context view) -> (string, error) the
// orchestrator and dependency resolver depend on. The full statement
// grammar is an external collaborator; this interface is the only
// surface the core requires of it.
type Engine interface {
	// Evaluate parses and executes a single bracketed statement against
	// the given evaluation context view, returning its string result.
	Evaluate(ctx context.Context, statement string, view evalcontext.View) (string, error)

	// ExtractReferences returns the resource names a statement's
	// reference(...) calls name, without evaluating it. Used by the
	// dependency resolver to discover implicit edges.
	ExtractReferences(statement string) ([]string, error)
}
