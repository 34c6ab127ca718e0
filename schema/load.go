package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openconfigure/dsc-core/errors"
	"github.com/spf13/afero"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Format identifies the on-disk encoding of a configuration document.
type Format string

const (
	// FormatJSON is strict JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML 1.1/1.2 as supported by gopkg.in/yaml.v3.
	FormatYAML Format = "yaml"
	// FormatJWCC is "JSON with commas and comments", the relaxed dialect
	// used by VS Code-style config files.
	FormatJWCC Format = "jwcc"
)

// DetectFormat infers a document's format from a file path's extension,
// defaulting to JSON for anything unrecognised.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".jsonc", ".json5":
		return FormatJWCC
	default:
		return FormatJSON
	}
}

// Parse decodes raw configuration document bytes in the given format.
func Parse(source []byte, format Format) (*Configuration, error) {
	switch format {
	case FormatYAML:
		config := &Configuration{}
		if err := yaml.Unmarshal(source, config); err != nil {
			if orchErr, ok := err.(*errors.Error); ok {
				return nil, orchErr
			}
			return nil, errors.Parser(fmt.Sprintf("invalid YAML configuration: %s", err))
		}
		return config, nil
	case FormatJWCC:
		standardised, err := hujson.Standardize(source)
		if err != nil {
			return nil, errors.Parser(fmt.Sprintf("invalid JWCC configuration: %s", err))
		}
		return Parse(standardised, FormatJSON)
	default:
		config := &Configuration{}
		if err := json.Unmarshal(source, config); err != nil {
			if orchErr, ok := err.(*errors.Error); ok {
				return nil, orchErr
			}
			return nil, errors.Parser(fmt.Sprintf("invalid JSON configuration: %s", err))
		}
		return config, nil
	}
}

// LoadFile reads a configuration document from the given file system and
// parses it, inferring the format from the file's extension. Using an
// afero.Fs rather than the os package directly keeps configuration
// loading testable against an in-memory file system.
func LoadFile(fs afero.Fs, path string) (*Configuration, error) {
	source, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Parser(fmt.Sprintf("configuration file %q does not exist", path))
		}
		if os.IsPermission(err) {
			return nil, errors.Parser(fmt.Sprintf("configuration file %q could not be read: %s", path, err))
		}
		return nil, err
	}

	return Parse(source, DetectFormat(path))
}
