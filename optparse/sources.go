package optparse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/huandu/xstrings"
	"gopkg.in/yaml.v3"
)

// DefaultSource supplies default values for options from outside the command line.
// Sources are consulted after `default` tags and before any argument is processed,
// in the order they were given; later sources win.
type DefaultSource interface {
	// Name identifies the source in error messages and logs.
	Name() string
	// Lookup returns the raw value for d, if the source has one.
	Lookup(d *Descriptor) (string, bool)
}

type envSource struct {
	prefix string
}

// EnvDefaults reads defaults from environment variables. An option's `env` tag
// names its variable; otherwise the variable is PREFIX_LONG_NAME in upper snake case.
func EnvDefaults(prefix string) DefaultSource {
	return envSource{prefix: prefix}
}

func (s envSource) Name() string { return "environment" }

func (s envSource) Lookup(d *Descriptor) (string, bool) {
	return os.LookupEnv(s.variable(d))
}

func (s envSource) variable(d *Descriptor) string {
	if d.env != "" {
		return d.env
	}
	name := strings.ToUpper(xstrings.ToSnakeCase(d.long))
	if s.prefix == "" {
		return name
	}
	return strings.ToUpper(s.prefix) + "_" + name
}

// MapDefaults serves defaults keyed by long option name.
type MapDefaults struct {
	Source string
	Values map[string]string
}

// Name implements DefaultSource.
func (m MapDefaults) Name() string {
	if m.Source == "" {
		return "defaults"
	}
	return m.Source
}

// Lookup implements DefaultSource.
func (m MapDefaults) Lookup(d *Descriptor) (string, bool) {
	v, ok := m.Values[d.long]
	return v, ok
}

// LoadDefaultsFile reads defaults from a YAML, TOML or JSON file, chosen by extension.
// Top-level keys are long option names; nested tables flatten to dotted keys and
// lists join with ','.
func LoadDefaultsFile(path string) (MapDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MapDefaults{}, fmt.Errorf("read defaults: %w", err)
	}
	values, err := DecodeDefaults(strings.TrimPrefix(filepath.Ext(path), "."), data)
	if err != nil {
		return MapDefaults{}, fmt.Errorf("decode defaults %s: %w", path, err)
	}
	return MapDefaults{Source: path, Values: values}, nil
}

// DecodeDefaults decodes a defaults document of the given format ("yaml", "yml",
// "toml" or "json") into raw option values.
func DecodeDefaults(format string, data []byte) (map[string]string, error) {
	raw := make(map[string]any)
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported defaults format %q", format)
	}

	values := make(map[string]string, len(raw))
	if err := flattenDefaults("", raw, values); err != nil {
		return nil, err
	}
	return values, nil
}

// flattenDefaults converts nested maps to dotted keys ({"a":{"b":1}} => {"a.b":"1"}).
func flattenDefaults(prefix string, src map[string]any, dst map[string]string) error {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := src[k].(type) {
		case map[string]any:
			if err := flattenDefaults(key, v, dst); err != nil {
				return err
			}
		case []any:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				s, err := scalarString(item)
				if err != nil {
					return fmt.Errorf("key %q: %w", key, err)
				}
				parts = append(parts, s)
			}
			dst[key] = strings.Join(parts, ",")
		default:
			s, err := scalarString(v)
			if err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}
			dst[key] = s
		}
	}
	return nil
}

func scalarString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool, int, int64, uint64:
		return fmt.Sprint(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", fmt.Errorf("unsupported value of type %T", v)
}
