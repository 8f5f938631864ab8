// Package profile wraps [github.com/pkg/profile] for the fldmerge command.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	fldmerge --pprof-mode cpu merge letter.yaml --data people.yaml
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// stopper, so callers never need build tags of their own. With the tag, the
// package also registers the [net/http/pprof] handlers.
//
// Profiles are written to the configured directory, by default the "pprof"
// directory below the user cache directory of fldmerge, and are read with
//
//	go tool pprof -http=: $XDG_CACHE_HOME/fldmerge/pprof/cpu.pprof
//
// Merging large packages spends most of its time in canonicalization and in
// the number and date formatting of the format package; "cpu" and "allocs"
// are the useful modes for those.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
