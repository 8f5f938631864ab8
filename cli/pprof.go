//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/fldmerge/log"
	"github.com/ardnew/fldmerge/profile"
)

// pprofConfig holds the profiling flags, prefixed with "pprof-".
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Profile to record while the command runs" placeholder:"MODE" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Directory receiving the profile"                                      type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: profile.Tag, Title: "Profiling (pprof)"}
}

// start starts the selected profile, if any. The returned function stops
// it and writes the profile below Dir.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	attrs := []slog.Attr{slog.String("mode", f.Mode), slog.String("dir", f.Dir)}

	log.DebugContext(ctx, "profiling started", attrs...)

	p := profile.New(
		profile.WithMode(f.Mode),
		profile.WithPath(f.Dir),
		profile.WithQuiet(true),
	).Start()

	return func() {
		p.Stop()
		log.DebugContext(ctx, "profile written", attrs...)
	}
}
