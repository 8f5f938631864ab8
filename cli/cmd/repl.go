package cmd

import (
	"context"

	"github.com/ardnew/fldmerge/cli/cmd/repl"
	"github.com/ardnew/fldmerge/log"
	"github.com/ardnew/fldmerge/merge"
)

// Repl starts an interactive session evaluating field instructions against
// the merge data.
type Repl struct {
	Language string `help:"Language tag used to format values" placeholder:"TAG"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	recs, err := records(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, repl.Session{
		Records: recs,
		Merger:  newMerger(merge.WithLanguage(r.Language)),
	}, kongVar(ctx, CacheIdentifier), log.Default())
}
