package field

import (
	"context"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/fldmerge/grammar"
)

// maxSuggestions bounds the "did you mean" list logged for a missing key.
const maxSuggestions = 3

// MergeFieldResolver resolves data-lookup fields against [Env.Data].
//
// The value of the instruction's key is formatted by the switches of the
// instruction and decorated with its \b prefix and \f suffix. A key with no
// data, or with an empty value, resolves to the empty string without
// decoration.
type MergeFieldResolver struct{}

// Resolve implements [Resolver]. It always reports a value.
func (MergeFieldResolver) Resolve(ctx context.Context, instruction string, env Env) (string, bool) {
	key, mismatched := grammar.DataKey(instruction)
	if mismatched {
		env.Logger.WarnContext(ctx, "quote mismatch in data field name",
			slog.String("key", key))
	}

	value, ok := env.Data.Lookup(key)
	if !ok {
		env.Logger.DebugContext(ctx, "no data for field",
			slog.String("key", key),
			slog.Any("suggest", suggest(key, env.Data.Names())),
		)
	}

	if value == "" {
		return "", true
	}

	if env.Format != nil {
		value = format(ctx, instruction, value, env)
	}

	return grammar.Decorate(value, instruction), true
}

func format(ctx context.Context, instruction, value string, env Env) string {
	model, err := grammar.ParseModel(instruction)
	if err != nil {
		env.Logger.WarnContext(ctx, "cannot format field", slog.Any("error", err))

		return value
	}

	formatted, err := env.Format.ApplySwitch(env.Document, model, value, env.Language)
	if err != nil {
		env.Logger.WarnContext(ctx, "cannot format field", slog.Any("error", err))

		return value
	}

	return formatted
}

// suggest returns the names closest to key by fuzzy match score.
func suggest(key string, names []string) []string {
	if key == "" || len(names) == 0 {
		return nil
	}

	matches := fuzzy.Find(MakeDataFieldName(key).String(), names)

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches[:min(len(matches), maxSuggestions)] {
		out = append(out, m.Str)
	}

	return out
}
