// Package loader reads and writes configuration files and the environment.
//
// Settings files are TOML (settings.toml, config.toml) or YAML (config.yaml,
// config.yml); the format follows the file extension. Environment variables
// with the configured prefix are mapped onto dotted setting paths.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat indicates a file extension with no known format.
var ErrUnknownFormat = errors.New("unknown config format")

// Format is a configuration file format.
type Format uint8

const (
	// FormatTOML is the default file format.
	FormatTOML Format = iota
	// FormatYAML is accepted for workspace files.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFor returns the format of path by extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatTOML, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadFile reads configuration from path. A missing file is not an error
// and yields a nil map.
func LoadFile(path string) (map[string]any, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	return Parse(format, path, data)
}

// Parse decodes data in the given format. source names the data in errors.
func Parse(format Format, source string, data []byte) (map[string]any, error) {
	var config map[string]any

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	default:
		if err := toml.Unmarshal(data, &config); err != nil {
			pe := &ParseError{Path: source, Message: err.Error(), Err: err}
			var decodeErr *toml.DecodeError
			if errors.As(err, &decodeErr) {
				pe.Line, pe.Column = decodeErr.Position()
			}
			return nil, pe
		}
	}

	return normalize(config), nil
}

// Encode renders config in the given format.
func Encode(format Format, config map[string]any) ([]byte, error) {
	if config == nil {
		config = map[string]any{}
	}
	switch format {
	case FormatYAML:
		return yaml.Marshal(config)
	default:
		return toml.Marshal(config)
	}
}

// SaveFile writes config to path, creating parent directories. The file is
// written to a temporary sibling and renamed into place.
func SaveFile(path string, config map[string]any) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := Encode(format, config)
	if err != nil {
		return fmt.Errorf("encoding config %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

// normalize converts decoder-specific numeric and map types so that values
// from every format compare equal: integers become int and YAML's
// map[any]any becomes map[string]any.
func normalize(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case int64:
		return int(val)
	case uint64:
		return int(val)
	case map[string]any:
		return normalize(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []any:
		for i := range val {
			val[i] = normalizeValue(val[i])
		}
		return val
	default:
		return v
	}
}
