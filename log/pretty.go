package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyBase holds the state shared by the pretty handlers: options, the
// serialized writer, and attributes bound with WithAttrs. Bound attribute
// keys are already qualified by the groups open when they were bound.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	groups     []string
	attrs      []slog.Attr
}

func newPrettyBase(w io.Writer, opts *slog.HandlerOptions, ft FormatTime) prettyBase {
	if ft == nil {
		ft = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return prettyBase{opts: *opts, formatTime: ft, mu: &sync.Mutex{}, w: w}
}

func (b prettyBase) Enabled(_ context.Context, level slog.Level) bool {
	return level >= b.opts.Level.Level()
}

func (b prettyBase) qualify(key string) string {
	if len(b.groups) == 0 {
		return key
	}

	return strings.Join(b.groups, ".") + "." + key
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	bound := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	bound = append(bound, b.attrs...)

	for _, a := range attrs {
		bound = append(bound, slog.Attr{Key: b.qualify(a.Key), Value: a.Value})
	}

	b.attrs = bound

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		b.groups = append(b.groups[:len(b.groups):len(b.groups)], name)
	}

	return b
}

// header returns the time, level, source and message of r as attributes,
// followed by the bound and record attributes with groups flattened into
// dotted keys.
func (b prettyBase) header(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4+len(b.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if ts := b.formatTime(r.Time); ts != "" {
			out = append(out, slog.String(slog.TimeKey, ts))
		}
	}

	out = append(out, slog.Any(slog.LevelKey, r.Level))

	if b.opts.AddSource {
		if src := r.Source(); src != nil {
			out = append(out, slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	out = append(out, slog.String(slog.MessageKey, r.Message))

	for _, a := range b.attrs {
		out = flatten(out, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		out = flatten(out, strings.Join(b.groups, "."), a)

		return true
	})

	return out
}

// flatten appends a to out, expanding group values into dotted keys and
// resolving [slog.LogValuer] values.
func flatten(out []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return out
	}

	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, g := range a.Value.Group() {
			out = flatten(out, key, g)
		}

		return out
	}

	return append(out, slog.Attr{Key: key, Value: a.Value})
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes colorized key=value lines.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions, ft FormatTime) *prettyTextHandler {
	return &prettyTextHandler{newPrettyBase(w, opts, ft)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.header(r) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray)
		buf.WriteString(a.Key)
		buf.WriteString(colorReset)
		buf.WriteByte('=')

		writeValue(buf, a.Value)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes colorized, indented JSON-like objects with one
// attribute per line.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions, ft FormatTime) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyBase(w, opts, ft)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	for i, a := range h.header(r) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(colorGray)
		buf.WriteString(a.Key)
		buf.WriteString(colorReset)
		buf.WriteString(": ")

		writeValue(buf, a.Value)
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

// writeValue writes v colored by kind: strings cyan, numbers yellow, booleans
// green or red, durations magenta, times blue, levels by severity.
func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, v.String()

	switch v.Kind() {
	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color = colorRed
		if v.Bool() {
			color = colorGreen
		}

	case slog.KindDuration:
		color = colorMagenta

	case slog.KindTime:
		color = colorBlue

	case slog.KindAny:
		switch a := v.Any().(type) {
		case slog.Level:
			color, text = levelColor(a), levelName(a)

		case error:
			color, text = colorRed, a.Error()

		case nil:
			color, text = colorGray, "null"
		}
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed

	case level >= slog.LevelWarn:
		return colorYellow

	case level >= slog.LevelInfo:
		return colorGreen

	default:
		return colorBlue
	}
}
