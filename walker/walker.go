// Package walker implements the recursive property-tree transform shared
// by evaluation (resolving embedded expressions) and export escaping
// (neutralising values that look like expressions).
package walker

import (
	"strings"

	"github.com/openconfigure/dsc-core/core"
	"github.com/openconfigure/dsc-core/errors"
)

// stringHandler transforms a single scalar string value found anywhere
// in a property tree. Evaluate and Escape differ only in this function.
type stringHandler func(value string) (string, error)

// Evaluate walks properties, replacing every bracketed string with the
// result of passing it to evalString. A non-bracketed string passes
// through unchanged; a bracketed string is always passed to evalString,
// which decides whether it is a true expression.
func Evaluate(properties map[string]*core.Value, evalString func(string) (string, error)) (map[string]*core.Value, error) {
	handler := func(value string) (string, error) {
		if isBracketed(value) {
			return evalString(value)
		}
		return value, nil
	}
	return walkProperties(properties, handler)
}

// Escape walks properties, prepending an extra leading '[' to every
// bracketed string so the expression engine treats it as a literal on
// re-apply. Not idempotent: escaping an already-escaped value adds
// another leading '['.
func Escape(properties map[string]*core.Value) (map[string]*core.Value, error) {
	handler := func(value string) (string, error) {
		if isBracketed(value) {
			return "[" + value, nil
		}
		return value, nil
	}
	return walkProperties(properties, handler)
}

func isBracketed(value string) bool {
	return len(value) >= 2 && strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]")
}

func walkProperties(properties map[string]*core.Value, handler stringHandler) (map[string]*core.Value, error) {
	if properties == nil {
		return nil, nil
	}

	out := make(map[string]*core.Value, len(properties))
	for key, value := range properties {
		transformed, err := walkValue(value, handler)
		if err != nil {
			return nil, err
		}
		out[key] = transformed
	}
	return out, nil
}

func walkValue(value *core.Value, handler stringHandler) (*core.Value, error) {
	if core.IsNil(value) {
		return value, nil
	}

	if core.IsObject(value) {
		fields, err := walkProperties(value.Fields, handler)
		if err != nil {
			return nil, err
		}
		return &core.Value{Fields: fields}, nil
	}

	if core.IsArray(value) {
		items := make([]*core.Value, len(value.Items))
		for i, item := range value.Items {
			if core.IsArray(item) {
				return nil, errors.Parser("nested arrays not supported")
			}
			transformed, err := walkValue(item, handler)
			if err != nil {
				return nil, err
			}
			items[i] = transformed
		}
		return &core.Value{Items: items}, nil
	}

	if str, ok := core.StringValue(value); ok {
		transformed, err := handler(str)
		if err != nil {
			return nil, err
		}
		return core.ScalarAsValue(core.ScalarFromString(transformed)), nil
	}

	return value, nil
}
