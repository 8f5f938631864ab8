package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/fldmerge/docio"
	"github.com/ardnew/fldmerge/log"
	"github.com/ardnew/fldmerge/merge"
	"github.com/ardnew/fldmerge/tree"
)

// Merge merges every data record into a copy of a document.
type Merge struct {
	Document string       `arg:"" default:"-"    help:"Document file or '-' for stdin"                          optional:"" type:"existingfile"`
	Input    docio.Format `       default:"yaml" help:"Format of a document whose file name has no known extension" placeholder:"FORMAT"`
	Output   string       `       default:"-"    help:"Output file or '-' for stdout"                             short:"o"  type:"path"`
	Format   docio.Format `       default:"yaml" help:"Output format (yaml, json, text)"                          short:"t"`
	Indent   int          `       default:"2"    help:"Indentation width, 0 for compact output"`

	HeadersFooters bool   `default:"true" help:"Also merge header and footer parts"              negatable:""`
	Concurrency    int    `default:"0"    help:"Maximum number of parts merged at once, 0 for one per CPU"`
	Language       string `               help:"Language tag for fields whose result carries none" placeholder:"TAG"`
}

// Run executes the merge command.
func (m *Merge) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	decode, err := decodeDocument(ctx, m.Document, m.Input)
	if err != nil {
		return err
	}

	recs, err := records(ctx)
	if err != nil {
		return err
	}

	merger := newMerger(m.options()...)
	pkgs := make([]*tree.Package, 0, len(recs))

	for i, rec := range recs {
		p, err := decode()
		if err != nil {
			return err
		}

		rep, err := merger.MergePackage(ctx, p, rec)
		if err != nil {
			return ErrMergeRecord.Wrap(err).With(slog.Int("record", i))
		}

		log.DebugContext(ctx, "merged record",
			slog.Int("record", i),
			slog.Int("fields", rep.Fields()),
			slog.Int("written", rep.Written()),
		)

		pkgs = append(pkgs, p)
	}

	w, closeOutput, err := m.output(ctx)
	if err != nil {
		return err
	}

	wr := docio.Writer{Format: m.Format, Indent: m.Indent}

	if err := wr.Write(ctx, w, pkgs...); err != nil {
		_ = closeOutput()

		return ErrWriteOutput.Wrap(err).With(slog.String("file", m.Output))
	}

	if err := closeOutput(); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", m.Output))
	}

	log.InfoContext(ctx, "merged document",
		slog.String("document", m.Document),
		slog.Int("records", len(recs)),
		slog.String("output", m.Output),
	)

	return nil
}

func (m *Merge) options() []merge.Option {
	opts := []merge.Option{
		merge.WithHeadersFooters(m.HeadersFooters),
		merge.WithLanguage(m.Language),
	}

	if m.Concurrency > 0 {
		opts = append(opts, merge.WithConcurrency(m.Concurrency))
	}

	return opts
}

func (m *Merge) output(ctx context.Context) (io.Writer, func() error, error) {
	if m.Output == "" || m.Output == stdinSource {
		return stdout(ctx), func() error { return nil }, nil
	}

	file, err := os.Create(m.Output)
	if err != nil {
		return nil, nil, ErrWriteOutput.Wrap(err).With(slog.String("file", m.Output))
	}

	return file, file.Close, nil
}
