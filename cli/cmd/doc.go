// Package cmd implements the fldmerge subcommands.
//
// Commands receive the parsed [kong.Context] and the shared merge data
// options through their [context.Context]; see [WithContext] and [WithData].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
