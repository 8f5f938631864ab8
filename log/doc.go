// Package log is the structured logging layer of fldmerge, built on
// [log/slog].
//
// A [Logger] is a value configured once with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("none"))
//
// The zero Logger discards everything. Library packages hold a Logger
// supplied by their caller (see merge.WithLogger) and never touch the
// package-level logger, which belongs to the command-line front end and is
// reconfigured with [Config].
//
// Attributes bound with [Logger.With] appear in every message. The field
// engine binds the name and the assembled instruction of the field being
// resolved:
//
//	logger.With(slog.String("field", "MERGEFIELD")).
//		WarnContext(ctx, "cannot format field", slog.Any("error", err))
//
// Five levels are defined, [LevelTrace] through [LevelError]. Output is JSON
// ([FormatJSON], the default) or key=value text ([FormatText]); either can be
// pretty-printed with colors using [WithPretty].
package log
