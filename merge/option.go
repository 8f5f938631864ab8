package merge

import (
	"runtime"
	"strings"

	"github.com/ardnew/fldmerge/field"
	"github.com/ardnew/fldmerge/format"
	"github.com/ardnew/fldmerge/log"
)

// Option applies a configuration option to config.
type Option func(config) config

// config holds the configuration of a [Merger].
type config struct {
	logger         log.Logger
	formatter      field.Formatter
	registry       field.Registry
	language       string
	concurrency    int
	headersFooters bool
}

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

func makeConfig(opts ...Option) config {
	return apply(config{
		formatter:   format.Switches{},
		registry:    field.DefaultRegistry(),
		concurrency: runtime.GOMAXPROCS(0),
	}, opts...)
}

// WithLogger sets the logger of the merge pass and every resolver.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// WithFormatter sets the collaborator that applies formatting switches.
// A nil formatter disables formatting.
func WithFormatter(f field.Formatter) Option {
	return func(c config) config {
		c.formatter = f

		return c
	}
}

// WithResolver registers res for fields named name, replacing any resolver
// already registered for that name.
func WithResolver(name string, res field.Resolver) Option {
	return func(c config) config {
		c.registry = c.registry.Clone()
		c.registry.Register(name, res)

		return c
	}
}

// WithLanguage sets the language tag used for fields whose result carries
// none.
func WithLanguage(lang string) Option {
	return func(c config) config {
		c.language = strings.TrimSpace(lang)

		return c
	}
}

// WithHeadersFooters controls whether [Merger.MergePackage] merges header
// and footer parts in addition to main parts.
func WithHeadersFooters(enable bool) Option {
	return func(c config) config {
		c.headersFooters = enable

		return c
	}
}

// WithConcurrency limits the number of parts merged at the same time.
// Values below one mean one.
func WithConcurrency(n int) Option {
	return func(c config) config {
		c.concurrency = max(n, 1)

		return c
	}
}
