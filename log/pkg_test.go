package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_UsesDefaultLogger(t *testing.T) {
	original := Default()
	t.Cleanup(func() { defaultLog = original })

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"InfoContext", func(msg string, attrs ...slog.Attr) {
			InfoContext(context.Background(), msg, attrs...)
		}, "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("merged package", slog.String("part", "document"))

			out := buf.String()
			for _, s := range []string{"merged package", tt.level, `"part":"document"`} {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %s: %s", s, out)
				}
			}
		})
	}
}

func TestPackage_CallerIsUserCode(t *testing.T) {
	original := Default()
	t.Cleanup(func() { defaultLog = original })

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithCaller(true), WithPretty(false))
	Info("merged package")

	if !strings.Contains(buf.String(), "pkg_test.go") {
		t.Errorf("source is not the caller: %s", buf.String())
	}
}
