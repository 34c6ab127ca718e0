// Package schema provides the document model for a configuration: the
// typed representation of resources, parameter declarations and property
// values parsed from a configuration document, along with the structural
// validation that load must perform regardless of source format.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/openconfigure/dsc-core/core"
	"github.com/openconfigure/dsc-core/errors"
	"gopkg.in/yaml.v3"
)

// Configuration is the root document: an ordered sequence of resources,
// an optional set of parameter declarations and an opaque metadata block.
type Configuration struct {
	Parameters map[string]*ParameterDeclaration `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Resources  []*Resource                      `yaml:"resources" json:"resources"`
	Metadata   *core.Value                      `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Resource is a single declarative unit inside a configuration.
type Resource struct {
	// Name is unique within the document.
	Name string
	// Type is a fully-qualified string identifier. Lookup against it is
	// case-insensitive but the original casing is preserved for output.
	Type string
	// Properties is the bag of property values for the resource. Unknown
	// fields on the resource's JSON/YAML object (anything other than
	// name, type, dependsOn and properties) are folded in here verbatim.
	Properties map[string]*core.Value
	// DependsOn names other resources in the same document that must be
	// invoked before this one.
	DependsOn []string
}

// reservedResourceFields lists the keys handled explicitly by Resource's
// unmarshalling; everything else is treated as a property.
var reservedResourceFields = map[string]bool{
	"name":       true,
	"type":       true,
	"dependsOn":  true,
	"properties": true,
}

// UnmarshalJSON implements custom decoding so that unrecognised top-level
// resource fields are preserved as properties rather than rejected, and so
// that a non-array dependsOn produces a validation error naming the
// resource instead of an opaque encoding/json type error.
func (r *Resource) UnmarshalJSON(data []byte) error {
	rawMessages := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &rawMessages); err != nil {
		return errors.Parser(fmt.Sprintf("resource must be a JSON object: %s", err))
	}
	raw := make(map[string]any, len(rawMessages))
	for k, v := range rawMessages {
		raw[k] = v
	}
	return r.fromRawFields(raw, jsonDecodeValue, jsonDecodeStrings)
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML sources.
func (r *Resource) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Parser("resource must be a mapping")
	}
	raw := map[string]any{}
	for i := 0; i < len(node.Content); i += 2 {
		raw[node.Content[i].Value] = node.Content[i+1]
	}
	return r.fromRawFields(raw, yamlDecodeValue, yamlDecodeStrings)
}

func (r *Resource) fromRawFields(
	raw map[string]any,
	decodeValue func(any) (*core.Value, error),
	decodeStrings func(any) ([]string, error),
) error {
	if nameRaw, ok := raw["name"]; ok {
		name, err := decodeScalarString(nameRaw)
		if err != nil {
			return errors.Validation("resource \"name\" must be a string")
		}
		r.Name = name
	}

	if typeRaw, ok := raw["type"]; ok {
		typeName, err := decodeScalarString(typeRaw)
		if err != nil {
			return errors.ValidationForResource(r.Name, "resource \"type\" must be a string")
		}
		r.Type = typeName
	}

	if dependsOnRaw, ok := raw["dependsOn"]; ok {
		names, err := decodeStrings(dependsOnRaw)
		if err != nil {
			return errors.ValidationForResource(r.Name, "\"dependsOn\" must be a sequence of strings")
		}
		r.DependsOn = names
	}

	r.Properties = map[string]*core.Value{}
	if propertiesRaw, ok := raw["properties"]; ok {
		value, err := decodeValue(propertiesRaw)
		if err != nil {
			return errors.ValidationForResource(r.Name, "\"properties\" must be a mapping")
		}
		if value != nil {
			if !core.IsObject(value) && !core.IsNil(value) {
				return errors.ValidationForResource(r.Name, "\"properties\" must be a mapping")
			}
			for k, v := range value.Fields {
				r.Properties[k] = v
			}
		}
	}

	for key, fieldRaw := range raw {
		if reservedResourceFields[key] {
			continue
		}
		value, err := decodeValue(fieldRaw)
		if err != nil {
			return errors.ValidationForResource(r.Name, fmt.Sprintf("field %q could not be decoded", key))
		}
		r.Properties[key] = value
	}

	if r.Name == "" {
		return errors.Validation("every resource must have a non-empty \"name\"")
	}
	if r.Type == "" {
		return errors.ValidationForResource(r.Name, "resource must have a \"type\"")
	}

	return nil
}

// MarshalJSON emits name, type, dependsOn and the property bag flattened
// back under "properties", mirroring the input shape.
func (r *Resource) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"name": r.Name,
		"type": r.Type,
	}
	if len(r.DependsOn) > 0 {
		out["dependsOn"] = r.DependsOn
	}
	if len(r.Properties) > 0 {
		out["properties"] = r.Properties
	}
	return json.Marshal(out)
}

func decodeScalarString(raw any) (string, error) {
	switch v := raw.(type) {
	case json.RawMessage:
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	case *yaml.Node:
		var s string
		if err := v.Decode(&s); err != nil {
			return "", err
		}
		return s, nil
	default:
		return "", fmt.Errorf("unsupported raw field type %T", raw)
	}
}

func jsonDecodeValue(raw any) (*core.Value, error) {
	msg := raw.(json.RawMessage)
	value := &core.Value{}
	if err := json.Unmarshal(msg, value); err != nil {
		return nil, err
	}
	return value, nil
}

func jsonDecodeStrings(raw any) ([]string, error) {
	msg := raw.(json.RawMessage)
	var names []string
	if err := json.Unmarshal(msg, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func yamlDecodeValue(raw any) (*core.Value, error) {
	node := raw.(*yaml.Node)
	value := &core.Value{}
	if err := value.UnmarshalYAML(node); err != nil {
		return nil, err
	}
	return value, nil
}

func yamlDecodeStrings(raw any) ([]string, error) {
	node := raw.(*yaml.Node)
	var names []string
	if err := node.Decode(&names); err != nil {
		return nil, err
	}
	return names, nil
}
