// Package core provides the value model and cross-cutting abstractions
// (logging, ID generation, clock) shared by every other package in this
// module.
package core

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScalarValue represents a scalar leaf in a Value tree: a string, integer,
// floating point number or boolean. Pointers are used so that zero values
// such as "", 0 and false can be distinguished from "not set".
//
// Priority when more than one field is populated (only relevant when
// constructing a ScalarValue directly rather than through unmarshalling):
// 1. string, 2. int, 3. bool, 4. float64.
type ScalarValue struct {
	IntValue    *int
	BoolValue   *bool
	FloatValue  *float64
	StringValue *string
}

// MarshalYAML fulfils the yaml.Marshaler interface.
func (v *ScalarValue) MarshalYAML() (interface{}, error) {
	if v.StringValue != nil {
		return *v.StringValue, nil
	}
	if v.IntValue != nil {
		return *v.IntValue, nil
	}
	if v.BoolValue != nil {
		return *v.BoolValue, nil
	}
	if v.FloatValue != nil {
		return *v.FloatValue, nil
	}
	return nil, nil
}

// UnmarshalYAML fulfils the yaml.Unmarshaler interface.
func (v *ScalarValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errMustBeScalar(value.Line, value.Column)
	}

	if value.Tag == "!!null" {
		return nil
	}

	// Decode will read floating point numbers as integers and truncate,
	// so a decimal point rules out the integer branch first.
	if !strings.Contains(value.Value, ".") {
		var intVal int
		if err := value.Decode(&intVal); err == nil {
			v.IntValue = &intVal
			return nil
		}
	}

	var boolVal bool
	if value.Tag == "!!bool" {
		if err := value.Decode(&boolVal); err == nil {
			v.BoolValue = &boolVal
			return nil
		}
	}

	var floatVal float64
	if err := value.Decode(&floatVal); err == nil {
		v.FloatValue = &floatVal
		return nil
	}

	// String is a superset of all other scalar types, so it is tried last.
	var stringVal string
	if err := value.Decode(&stringVal); err == nil {
		v.StringValue = &stringVal
		return nil
	}

	return errMustBeScalar(value.Line, value.Column)
}

// MarshalJSON fulfils the json.Marshaler interface.
func (v *ScalarValue) MarshalJSON() ([]byte, error) {
	if v.StringValue != nil {
		return json.Marshal(*v.StringValue)
	}
	if v.IntValue != nil {
		return json.Marshal(*v.IntValue)
	}
	if v.BoolValue != nil {
		return json.Marshal(*v.BoolValue)
	}
	if v.FloatValue != nil {
		return json.Marshal(*v.FloatValue)
	}
	return []byte("null"), nil
}

// UnmarshalJSON fulfils the json.Unmarshaler interface.
func (v *ScalarValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}

	if !strings.Contains(trimmed, ".") {
		var intVal int
		if err := json.Unmarshal(data, &intVal); err == nil {
			v.IntValue = &intVal
			return nil
		}
	}

	if trimmed == "true" || trimmed == "false" {
		var boolVal bool
		if err := json.Unmarshal(data, &boolVal); err == nil {
			v.BoolValue = &boolVal
			return nil
		}
	}

	var floatVal float64
	if err := json.Unmarshal(data, &floatVal); err == nil {
		v.FloatValue = &floatVal
		return nil
	}

	var stringVal string
	if err := json.Unmarshal(data, &stringVal); err == nil {
		v.StringValue = &stringVal
		return nil
	}

	return errMustBeScalar(0, 0)
}

// Equal reports whether two scalar values hold the same kind and value.
func (v *ScalarValue) Equal(other *ScalarValue) bool {
	if v == nil || other == nil {
		return v == other
	}

	if v.StringValue != nil && other.StringValue != nil {
		return *v.StringValue == *other.StringValue
	}
	if v.IntValue != nil && other.IntValue != nil {
		return *v.IntValue == *other.IntValue
	}
	if v.BoolValue != nil && other.BoolValue != nil {
		return *v.BoolValue == *other.BoolValue
	}
	if v.FloatValue != nil && other.FloatValue != nil {
		return *v.FloatValue == *other.FloatValue
	}
	return v.IsNull() && other.IsNull()
}

// IsNull reports whether the scalar value represents a JSON/YAML null.
func (v *ScalarValue) IsNull() bool {
	return v != nil &&
		v.StringValue == nil &&
		v.IntValue == nil &&
		v.BoolValue == nil &&
		v.FloatValue == nil
}

// ScalarFromString creates a scalar value from a string.
func ScalarFromString(value string) *ScalarValue {
	return &ScalarValue{StringValue: &value}
}

// ScalarFromInt creates a scalar value from an integer.
func ScalarFromInt(value int) *ScalarValue {
	return &ScalarValue{IntValue: &value}
}

// ScalarFromBool creates a scalar value from a boolean.
func ScalarFromBool(value bool) *ScalarValue {
	return &ScalarValue{BoolValue: &value}
}

// ScalarFromFloat creates a scalar value from a float.
func ScalarFromFloat(value float64) *ScalarValue {
	return &ScalarValue{FloatValue: &value}
}

// IsInScalarList checks if a given scalar value is present in a list of
// scalar values.
func IsInScalarList(value *ScalarValue, list []*ScalarValue) bool {
	for _, candidate := range list {
		if candidate.Equal(value) {
			return true
		}
	}
	return false
}

// Value is a tagged union representing the JSON-shaped property value that
// flows through resource property bags: null, bool, integer, number,
// string, a sequence of Value or a mapping from string to Value.
//
// Exactly one of Scalar, Fields or Items is populated for a non-null value;
// a Value with all three nil represents null.
type Value struct {
	Scalar *ScalarValue
	Fields map[string]*Value
	Items  []*Value
}

// MarshalYAML fulfils the yaml.Marshaler interface.
func (v *Value) MarshalYAML() (interface{}, error) {
	if v.Fields != nil {
		return v.Fields, nil
	}
	if v.Items != nil {
		return v.Items, nil
	}
	if v.Scalar != nil {
		return v.Scalar, nil
	}
	return nil, nil
}

// UnmarshalYAML fulfils the yaml.Unmarshaler interface.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		v.Scalar = &ScalarValue{}
		return v.Scalar.UnmarshalYAML(node)
	case yaml.SequenceNode:
		v.Items = make([]*Value, len(node.Content))
		for i, item := range node.Content {
			v.Items[i] = &Value{}
			if err := v.Items[i].UnmarshalYAML(item); err != nil {
				return err
			}
		}
		return nil
	case yaml.MappingNode:
		v.Fields = make(map[string]*Value, len(node.Content)/2)
		for i := 0; i < len(node.Content); i += 2 {
			key := node.Content[i]
			val := node.Content[i+1]
			child := &Value{}
			if err := child.UnmarshalYAML(val); err != nil {
				return err
			}
			v.Fields[key.Value] = child
		}
		return nil
	default:
		return errInvalidValue(node.Line, node.Column)
	}
}

// MarshalJSON fulfils the json.Marshaler interface.
func (v *Value) MarshalJSON() ([]byte, error) {
	if v.Fields != nil {
		return json.Marshal(v.Fields)
	}
	if v.Items != nil {
		return json.Marshal(v.Items)
	}
	if v.Scalar != nil {
		return json.Marshal(v.Scalar)
	}
	return []byte("null"), nil
}

// UnmarshalJSON fulfils the json.Unmarshaler interface.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []*Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		v.Items = items
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var fields map[string]*Value
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		v.Fields = fields
		return nil
	}

	v.Scalar = &ScalarValue{}
	return v.Scalar.UnmarshalJSON(data)
}

// IsNil returns true if the value is nil or represents a JSON/YAML null.
func IsNil(value *Value) bool {
	return value == nil || (value.Scalar == nil && value.Fields == nil && value.Items == nil)
}

// IsObject returns true if the value is a mapping.
func IsObject(value *Value) bool {
	return value != nil && value.Fields != nil
}

// IsArray returns true if the value is a sequence.
func IsArray(value *Value) bool {
	return value != nil && value.Items != nil
}

// IsScalar returns true if the value is a scalar (including null).
func IsScalar(value *Value) bool {
	return value != nil && (value.Scalar != nil || IsNil(value))
}

// ValueEqual performs a deep-equal comparison of two values.
func ValueEqual(a, b *Value) bool {
	if IsNil(a) && IsNil(b) {
		return true
	}
	if IsNil(a) != IsNil(b) {
		return false
	}

	if a.Scalar != nil && b.Scalar != nil {
		return a.Scalar.Equal(b.Scalar)
	}

	if IsObject(a) && IsObject(b) {
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for k, v := range a.Fields {
			other, ok := b.Fields[k]
			if !ok || !ValueEqual(v, other) {
				return false
			}
		}
		return true
	}

	if IsArray(a) && IsArray(b) {
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !ValueEqual(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	}

	return false
}

// ScalarAsValue wraps a scalar as a Value, the form used everywhere a
// property bag or evaluation context entry is expected.
func ScalarAsValue(scalar *ScalarValue) *Value {
	return &Value{Scalar: scalar}
}

// StringValue extracts a Go string from a value that is expected to be a
// string scalar. Returns "" and false if the value is not a string scalar.
func StringValue(value *Value) (string, bool) {
	if value == nil || value.Scalar == nil || value.Scalar.StringValue == nil {
		return "", false
	}
	return *value.Scalar.StringValue, true
}
