package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/scss/lang/diag"
)

// ErrConfig is returned for a configuration file that is not valid YAML or
// whose document is not a mapping.
var ErrConfig = diag.NewError("invalid configuration file")

// loadYAML is a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadYAML, "/path/to/config.yaml")
//
// The document is converted as follows:
//   - Top-level keys name flags; either "log-level" or "log_level" sets
//     --log-level
//   - Nested mappings are flattened by joining keys with '-', so
//     "log: {level: debug}" also sets --log-level
//   - Sequences set repeatable flags, one element per occurrence
//   - Numbers are passed to kong as strings for parsing
//
// Example config file:
//
//	log:
//	  level: debug
//	  format: json
//	define:
//	  - gutter=12px
//	  - columns=12
//
// Command-line flags override config file values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var doc any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, ErrConfig.Wrap(err)
	}

	conf := config{}

	switch doc := doc.(type) {
	case nil:
	case map[string]any:
		conf.flatten("", doc)
	default:
		return nil, ErrConfig.Wrapf("document is %T, not a mapping", doc)
	}

	return conf, nil
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// flatten adds the entries of m to r, prefixing each key with prefix.
func (r config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := val.(map[string]any); ok {
			r.flatten(key, sub)

			continue
		}

		r[key] = flagValue(val)
	}
}

// flagValue converts a decoded YAML value to one kong can parse.
func flagValue(val any) any {
	switch v := val.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			if s, ok := el.(string); ok {
				out[i] = s
			} else {
				out[i] = fmt.Sprint(flagValue(el))
			}
		}

		return out
	}

	return val
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Keys may spell the flag with '_' in place of '-', in whole or in part
	// once nested keys are joined.
	for key, value := range r {
		if strings.ReplaceAll(key, "_", "-") == flag.Name {
			return value, nil
		}
	}

	return nil, nil
}
