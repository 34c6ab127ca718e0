package expressions

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/openconfigure/dsc-core/core"
	"github.com/openconfigure/dsc-core/evalcontext"
)

var (
	referenceCallPattern = regexp.MustCompile(`^reference\('([^']*)'\)$`)
	parameterCallPattern = regexp.MustCompile(`^parameter\('([^']*)'\)$`)
)

// BracketEngine is the default Engine implementation. It understands two
// statement forms recovered from the original configurator this module's
// behaviour is grounded on: reference('<resource-name>') and
// parameter('<name>'). Any other bracketed content is reported as a
// syntactically invalid expression, since the full statement grammar is
// an external collaborator this module does not attempt to reimplement.
type BracketEngine struct{}

// NewBracketEngine constructs the default expression engine.
func NewBracketEngine() *BracketEngine {
	return &BracketEngine{}
}

// Evaluate implements Engine.
func (e *BracketEngine) Evaluate(_ context.Context, statement string, view evalcontext.View) (string, error) {
	body, err := unwrap(statement)
	if err != nil {
		return "", err
	}

	if match := referenceCallPattern.FindStringSubmatch(body); match != nil {
		name := match[1]
		value, ok := view.Resource(name)
		if !ok {
			return "", fmt.Errorf("resource %q has not produced a result yet", name)
		}
		return encodeResult(value)
	}

	if match := parameterCallPattern.FindStringSubmatch(body); match != nil {
		name := match[1]
		value, ok := view.Parameter(name)
		if !ok {
			return "", fmt.Errorf("parameter %q is not set", name)
		}
		return encodeResult(value)
	}

	return "", fmt.Errorf("unrecognised expression %q", statement)
}

// ExtractReferences implements Engine.
func (e *BracketEngine) ExtractReferences(statement string) ([]string, error) {
	body, err := unwrap(statement)
	if err != nil {
		return nil, err
	}

	if match := referenceCallPattern.FindStringSubmatch(body); match != nil {
		return []string{match[1]}, nil
	}

	return nil, nil
}

func unwrap(statement string) (string, error) {
	if len(statement) < 2 || !strings.HasPrefix(statement, "[") || !strings.HasSuffix(statement, "]") {
		return "", fmt.Errorf("statement %q is not a bracketed expression", statement)
	}
	return strings.TrimSpace(statement[1 : len(statement)-1]), nil
}

// encodeResult renders a context value as the single string an
// expression must evaluate to: a string scalar is returned unquoted,
// anything else is JSON-encoded.
func encodeResult(value *core.Value) (string, error) {
	if core.IsNil(value) {
		return "", nil
	}
	if str, ok := core.StringValue(value); ok {
		return str, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
