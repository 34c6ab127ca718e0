// Package constraints validates a parameter value against its declared
// typed constraints: length, allowed values and numeric limits, followed
// by enforcement of the declared type's runtime shape.
package constraints

import (
	"fmt"

	"github.com/openconfigure/dsc-core/core"
	"github.com/openconfigure/dsc-core/errors"
	"github.com/openconfigure/dsc-core/schema"
)

// Check runs the three independent constraint checks in order, then
// enforces the declared type's runtime shape. All failures are reported
// as validation errors naming the offending parameter.
func Check(name string, decl *schema.ParameterDeclaration, value *core.Value) error {
	if err := checkLength(name, decl, value); err != nil {
		return err
	}
	if err := checkAllowedValues(name, decl, value); err != nil {
		return err
	}
	if err := checkNumericLimits(name, decl, value); err != nil {
		return err
	}
	return checkType(name, decl, value)
}

func checkLength(name string, decl *schema.ParameterDeclaration, value *core.Value) error {
	if decl.MinLength == nil && decl.MaxLength == nil {
		return nil
	}

	length, err := measureLength(value)
	if err != nil {
		return errors.ValidationForParameter(name, err.Error())
	}

	if decl.MinLength != nil && length < *decl.MinLength {
		return errors.ValidationForParameter(
			name,
			fmt.Sprintf("length %d is less than the minimum of %d", length, *decl.MinLength),
		)
	}
	if decl.MaxLength != nil && length > *decl.MaxLength {
		return errors.ValidationForParameter(
			name,
			fmt.Sprintf("length %d is greater than the maximum of %d", length, *decl.MaxLength),
		)
	}
	return nil
}

func measureLength(value *core.Value) (int, error) {
	if core.IsArray(value) {
		return len(value.Items), nil
	}
	if str, ok := core.StringValue(value); ok {
		return len(str), nil
	}
	return 0, fmt.Errorf("minLength/maxLength only apply to string or array values")
}

func checkAllowedValues(name string, decl *schema.ParameterDeclaration, value *core.Value) error {
	if len(decl.AllowedValues) == 0 {
		return nil
	}
	for _, allowed := range decl.AllowedValues {
		if core.ValueEqual(allowed, value) {
			return nil
		}
	}
	return errors.ValidationForParameter(name, "value is not one of the allowed values")
}

func checkNumericLimits(name string, decl *schema.ParameterDeclaration, value *core.Value) error {
	if decl.MinValue == nil && decl.MaxValue == nil {
		return nil
	}
	if decl.Type != schema.ParameterTypeInt {
		return errors.ValidationForParameter(name, "minValue/maxValue only apply to int parameters")
	}

	intValue, ok := intValue(value)
	if !ok {
		return errors.ValidationForParameter(name, "value must be an integer to apply minValue/maxValue")
	}

	if decl.MinValue != nil && intValue < *decl.MinValue {
		return errors.ValidationForParameter(
			name,
			fmt.Sprintf("value %d is less than the minimum of %d", intValue, *decl.MinValue),
		)
	}
	if decl.MaxValue != nil && intValue > *decl.MaxValue {
		return errors.ValidationForParameter(
			name,
			fmt.Sprintf("value %d is greater than the maximum of %d", intValue, *decl.MaxValue),
		)
	}
	return nil
}

func checkType(name string, decl *schema.ParameterDeclaration, value *core.Value) error {
	switch decl.Type {
	case schema.ParameterTypeString, schema.ParameterTypeSecureString:
		if _, ok := core.StringValue(value); !ok {
			return errors.ValidationForParameter(name, fmt.Sprintf("expected a string value for type %q", decl.Type))
		}
	case schema.ParameterTypeInt:
		if _, ok := intValue(value); !ok {
			return errors.ValidationForParameter(name, "expected an integer value for type \"int\"")
		}
	case schema.ParameterTypeBool:
		if value == nil || value.Scalar == nil || value.Scalar.BoolValue == nil {
			return errors.ValidationForParameter(name, "expected a bool value for type \"bool\"")
		}
	case schema.ParameterTypeArray:
		if !core.IsArray(value) {
			return errors.ValidationForParameter(name, "expected an array value for type \"array\"")
		}
	case schema.ParameterTypeObject, schema.ParameterTypeSecureObject:
		if !core.IsObject(value) {
			return errors.ValidationForParameter(name, fmt.Sprintf("expected an object value for type %q", decl.Type))
		}
	default:
		return errors.ValidationForParameter(name, fmt.Sprintf("unknown parameter type %q", decl.Type))
	}
	return nil
}

func intValue(value *core.Value) (int, bool) {
	if value == nil || value.Scalar == nil || value.Scalar.IntValue == nil {
		return 0, false
	}
	return *value.Scalar.IntValue, true
}
