package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/fldmerge/log"
	"github.com/ardnew/fldmerge/merge"
)

// Eval resolves one field instruction against every data record.
type Eval struct {
	Instruction []string `arg:"" help:"Field instruction, for example: MERGEFIELD Name \\* Upper" passthrough:""`
	Language    string   `       help:"Language tag used to format the value"                    placeholder:"TAG"`
}

// Run executes the eval command. One line is printed per record; a record
// for which the instruction has no value prints an empty line.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	instruction := strings.Join(e.Instruction, " ")

	recs, err := records(ctx)
	if err != nil {
		return err
	}

	merger := newMerger(merge.WithLanguage(e.Language))
	out := stdout(ctx)

	for i, rec := range recs {
		value, ok, err := merger.Eval(ctx, instruction, rec)
		if err != nil {
			return err
		}

		if !ok {
			log.DebugContext(ctx, "instruction has no value",
				slog.Int("record", i),
				slog.String("instruction", instruction),
			)
		}

		fmt.Fprintln(out, value)
	}

	return nil
}
