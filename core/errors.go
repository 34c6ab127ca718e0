package core

import (
	"errors"
	"fmt"
)

// ValueError is returned when a Value or ScalarValue can not be parsed
// from a serialised configuration document.
type ValueError struct {
	ReasonCode ValueErrorReasonCode
	Err        error
	// Line and Column hold the source location of the offending value
	// when parsed from YAML; both are 0 when parsed from JSON, which
	// does not carry positional information through encoding/json.
	Line   int
	Column int
}

func (e *ValueError) Error() string {
	return e.Err.Error()
}

// ValueErrorReasonCode classifies a ValueError.
type ValueErrorReasonCode string

const (
	// ValueErrorReasonCodeMustBeScalar is provided when a value that is
	// expected to be a scalar is not one of string, int, bool or float.
	ValueErrorReasonCodeMustBeScalar ValueErrorReasonCode = "must_be_scalar"
	// ValueErrorReasonCodeInvalidValue is provided when a value does not
	// match any of the supported shapes (scalar, sequence or mapping).
	ValueErrorReasonCodeInvalidValue ValueErrorReasonCode = "invalid_value"
)

func errMustBeScalar(line, column int) error {
	return &ValueError{
		ReasonCode: ValueErrorReasonCodeMustBeScalar,
		Err:        errors.New("value must be a scalar (string, int, bool or float)"),
		Line:       line,
		Column:     column,
	}
}

func errInvalidValue(line, column int) error {
	return &ValueError{
		ReasonCode: ValueErrorReasonCodeInvalidValue,
		Err:        fmt.Errorf("value must be a valid scalar, sequence or mapping"),
		Line:       line,
		Column:     column,
	}
}
