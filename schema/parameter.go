package schema

import "github.com/openconfigure/dsc-core/core"

// ParameterType is the declared type of a configuration parameter.
type ParameterType string

const (
	ParameterTypeString       ParameterType = "string"
	ParameterTypeSecureString ParameterType = "secureString"
	ParameterTypeInt          ParameterType = "int"
	ParameterTypeBool         ParameterType = "bool"
	ParameterTypeArray        ParameterType = "array"
	ParameterTypeObject       ParameterType = "object"
	ParameterTypeSecureObject ParameterType = "secureObject"
)

// IsSecure reports whether the parameter type is one of the "secure"
// variants. Validation treats secure types identically to their plain
// counterparts; redaction of secure values is outside this module.
func (t ParameterType) IsSecure() bool {
	return t == ParameterTypeSecureString || t == ParameterTypeSecureObject
}

// ParameterDeclaration describes the schema of a single configuration
// parameter: its type and the optional constraints a bound value must
// satisfy.
type ParameterDeclaration struct {
	Type ParameterType `yaml:"type" json:"type"`
	// DefaultValue is a literal only; expression defaults are recognised
	// as a future extension and are currently stored, never evaluated.
	DefaultValue  *core.Value   `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
	MinLength     *int          `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength     *int          `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinValue      *int          `yaml:"minValue,omitempty" json:"minValue,omitempty"`
	MaxValue      *int          `yaml:"maxValue,omitempty" json:"maxValue,omitempty"`
	AllowedValues []*core.Value `yaml:"allowedValues,omitempty" json:"allowedValues,omitempty"`
}
