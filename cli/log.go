package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/fldmerge/log"
)

// logFormat configures the default logger's format as soon as kong decodes
// the flag.
type logFormat string

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the default logger's level as soon as kong decodes
// the flag.
type logLevel string

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

// logConfig holds the flags of the default logger, prefixed with "log-".
type logConfig struct {
	Level      logLevel  `default:"warn"    enum:"${logLevelEnum}"  help:"Minimum level of logged messages."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Log output format."`
	TimeLayout string    `default:"RFC3339"                         help:"Timestamp layout (Go layout, layout name, or none)."`
	Caller     bool      `default:"false"                           help:"Log the source location of each message." negatable:""`
	Pretty     bool      `default:"true"                            help:"Colorize text output."                     negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging"}
}

// start applies the parsed logger configuration. The returned function logs
// the run time of the command.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	began := time.Now()

	return func() {
		log.DebugContext(ctx, "command finished", slog.Duration("elapsed", time.Since(began)))
	}
}

// scan applies the logger flags in args before kong parses them, so that
// messages logged while parsing honor them wherever they appear on the
// command line. Boolean flags never reach an UnmarshalText method, hence
// this pre-pass.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")
		if !strings.HasPrefix(name, "--log-") && !strings.HasPrefix(name, "--no-log-") {
			continue
		}

		switch name {
		case "--log-level", "--log-format":
			if !assigned && i+1 < len(args) && args[i+1] != "" && !strings.HasPrefix(args[i+1], "-") {
				i++
				value = args[i]
			}

			if name == "--log-level" {
				_ = f.Level.UnmarshalText([]byte(value))
			} else {
				_ = f.Format.UnmarshalText([]byte(value))
			}

		case "--log-pretty", "--no-log-pretty":
			f.Pretty = negatable(name, value, assigned, f.Pretty)
			log.Config(log.WithPretty(f.Pretty))

		case "--log-caller", "--no-log-caller":
			f.Caller = negatable(name, value, assigned, f.Caller)
			log.Config(log.WithCaller(f.Caller))
		}
	}
}

// negatable returns the value of a boolean flag that has a "--no-" form.
// An explicit value that does not parse keeps old.
func negatable(name, value string, assigned, old bool) bool {
	v := true

	if assigned {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return old
		}

		v = b
	}

	if strings.HasPrefix(name, "--no-") {
		return !v
	}

	return v
}
