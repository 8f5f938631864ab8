package field

import (
	"context"
	"log/slog"

	"github.com/ardnew/fldmerge/grammar"
)

// IfResolver resolves conditional fields. A malformed condition is logged
// and has no value.
type IfResolver struct{}

// Resolve implements [Resolver].
func (IfResolver) Resolve(ctx context.Context, instruction string, env Env) (string, bool) {
	value, err := grammar.EvalCondition(instruction)
	if err != nil {
		env.Logger.WarnContext(ctx, "cannot evaluate condition", slog.Any("error", err))

		return "", false
	}

	return value, true
}
