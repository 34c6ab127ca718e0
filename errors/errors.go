// Package errors defines the error taxonomy surfaced by the orchestration
// core: parse errors, validation errors, resolution errors, expression
// errors and provider errors, as described by the error handling design
// in the project's requirements.
package errors

import "fmt"

// Kind classifies an Error by where in the pipeline it originated,
// independent of the concrete Go type used to carry it.
type Kind string

const (
	// KindParse is reported for malformed configuration documents or
	// unsupported property shapes, e.g. a nested array.
	KindParse Kind = "parse"
	// KindValidation is reported for schema or semantic rule violations:
	// duplicate export types, unknown parameters, unknown dependency
	// targets, constraint failures, type mismatches and cycles.
	KindValidation Kind = "validation"
	// KindResolution is reported when a resource's type has no
	// registered provider.
	KindResolution Kind = "resolution"
	// KindExpression is reported when the expression engine fails to
	// parse or evaluate a bracketed statement.
	KindExpression Kind = "expression"
	// KindProvider wraps an opaque failure returned by a provider call.
	KindProvider Kind = "provider"
)

// Error is the error type returned by every exported operation in this
// module. ResourceName and ParameterName are populated when the failure
// can be attributed to a specific resource or parameter.
type Error struct {
	Kind          Kind
	Err           error
	ResourceName  string
	ParameterName string
	ResourceType  string
}

func (e *Error) Error() string {
	switch {
	case e.ParameterName != "":
		return fmt.Sprintf("%s: parameter %q: %s", e.Kind, e.ParameterName, e.Err.Error())
	case e.ResourceName != "":
		return fmt.Sprintf("%s: resource %q: %s", e.Kind, e.ResourceName, e.Err.Error())
	case e.ResourceType != "":
		return fmt.Sprintf("%s: resource type %q: %s", e.Kind, e.ResourceType, e.Err.Error())
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parser creates a parse-kind error with the given message.
func Parser(message string) error {
	return &Error{Kind: KindParse, Err: fmt.Errorf("%s", message)}
}

// Validation creates a validation-kind error with the given message.
func Validation(message string) error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf("%s", message)}
}

// ValidationForParameter creates a validation-kind error attributed to a
// named parameter.
func ValidationForParameter(name, message string) error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf("%s", message), ParameterName: name}
}

// ValidationForResource creates a validation-kind error attributed to a
// named resource.
func ValidationForResource(name, message string) error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf("%s", message), ResourceName: name}
}

// ResourceNotFound creates a resolution-kind error reporting that no
// provider was discovered for the given resource type.
func ResourceNotFound(resourceType string) error {
	return &Error{
		Kind:         KindResolution,
		Err:          fmt.Errorf("no provider is registered for resource type %q", resourceType),
		ResourceType: resourceType,
	}
}

// Expression wraps a failure reported by the expression engine while
// evaluating a statement that belongs to the named resource.
func Expression(resourceName string, err error) error {
	return &Error{Kind: KindExpression, Err: err, ResourceName: resourceName}
}

// Provider wraps an opaque failure returned by a provider call against
// the named resource.
func Provider(resourceName string, err error) error {
	return &Error{Kind: KindProvider, Err: err, ResourceName: resourceName}
}

// Is reports whether err carries the given Kind, unwrapping as needed.
func Is(err error, kind Kind) bool {
	var orchErr *Error
	for err != nil {
		if asErr, ok := err.(*Error); ok {
			orchErr = asErr
			break
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return orchErr != nil && orchErr.Kind == kind
}
