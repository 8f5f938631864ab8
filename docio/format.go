package docio

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ardnew/fldmerge/pkg"
)

// Format is an encoding of documents and data.
type Format int

const (
	FormatYAML Format = iota // yaml
	FormatJSON               // json
	FormatText               // text
)

// DefaultFormat is used for sources whose format cannot be inferred.
const DefaultFormat = FormatYAML

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"

	case FormatJSON:
		return "json"

	case FormatText:
		return "text"

	default:
		return "unknown"
	}
}

// ParseFormat returns the format with the given name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil

	case "json":
		return FormatJSON, nil

	case "text", "txt":
		return FormatText, nil

	default:
		return DefaultFormat, pkg.ErrInvalidFormat.With(slog.String("format", s))
	}
}

// FormatOf infers the format of a file from its extension. It reports false
// if the extension is not recognized, including for "-" (standard input).
func FormatOf(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return DefaultFormat, false
	}

	f, err := ParseFormat(ext)

	return f, err == nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = v

	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }
