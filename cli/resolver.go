package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/fldmerge/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML configuration
// files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Keys name flags. Nested mappings are joined with hyphens, and underscores
// may stand in for hyphens, so the following are equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// A mapping stored under the name of a map flag also sets that flag:
//
//	set:
//	  company: Acme Ltd.
//	  city: Oslo
//
// A file that cannot be parsed is logged and ignored. Command-line flags
// override configuration values.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &doc); err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "ignoring configuration file",
					slog.String("file", sourceName(r)),
					slog.Any("error", err),
				)
			}

			return config{}, nil
		}

		cfg := make(config, len(doc))
		cfg.add("", doc)

		return cfg, nil
	}
}

func sourceName(r io.Reader) string {
	if n, ok := r.(interface{ Name() string }); ok {
		return n.Name()
	}

	return "config"
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

func (r config) add(prefix string, m map[string]any) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := m[k].(map[string]any); ok {
			r[key] = scalars(sub)
			r.add(key, sub)

			continue
		}

		r[key] = scalar(m[k])
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// scalar converts YAML values to the forms kong's mappers accept. Numbers
// are passed as strings.
func scalar(v any) any {
	switch v := v.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)

	case int64:
		return strconv.FormatInt(v, 10)

	case int:
		return strconv.Itoa(v)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out

	case map[string]any:
		return scalars(v)

	default:
		return v
	}
}

// scalars returns a copy of m with every leaf rendered as a string, the form
// kong expects for the values of map flags.
func scalars(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))

	for k, v := range m {
		switch v := scalar(v).(type) {
		case string, map[string]any:
			out[k] = v

		default:
			out[k] = fmt.Sprint(v)
		}
	}

	return out
}
