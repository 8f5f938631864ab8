// Package cli contains the command line interface of fldmerge.
//
// # Commands
//
//   - merge: merge every data record into a copy of a document (default)
//   - fields: list the fields of a document
//   - eval: resolve one field instruction against every record
//   - repl: resolve field instructions interactively
//   - init: write the current flag values to the configuration file
//
// Merge data is selected by global flags shared by all commands:
//
//	fldmerge --data people.yaml --set Sender="Ann Lee" merge letter.yaml -t text
//
// A data file holding a mapping is one record; a sequence of mappings is one
// record per element. Fields given with --set are stored in every record.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory. YAML keys name flags; nested mappings join their
// keys with "-" and underscores become hyphens, so
//
//	log:
//	  level: debug
//	  time_layout: Kitchen
//
// sets --log-level and --log-time-layout. Flags given on the command line
// take precedence.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: log output format (text, json)
//   - --log-time-layout: timestamp layout
//   - --log-caller: include caller information
//   - --log-pretty: colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//   - --pprof-mode: profile to record (see --help for the list)
//   - --pprof-dir: profile output directory
//
// For example:
//
//	go build -tags pprof -o fldmerge .
package cli
