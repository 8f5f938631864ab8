package docio

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/fldmerge/pkg"
	"github.com/ardnew/fldmerge/tree"
)

// Writer encodes documents in one format.
type Writer struct {
	Format Format
	// Indent is the indentation width of YAML and JSON output. Zero writes
	// compact output: flow-style YAML, single-line JSON.
	Indent int
}

// Write encodes each package to w. Several YAML packages are written as a
// multi-document stream, several JSON packages one per line, and several text
// packages separated by form feeds.
func (wr Writer) Write(ctx context.Context, w io.Writer, pkgs ...*tree.Package) error {
	for i, p := range pkgs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if i > 0 {
			if _, err := io.WriteString(w, wr.separator()); err != nil {
				return err
			}
		}

		if err := wr.write(ctx, w, p); err != nil {
			return err
		}
	}

	return nil
}

func (wr Writer) separator() string {
	switch wr.Format {
	case FormatYAML:
		return "---\n"

	case FormatText:
		return "\f"

	default:
		return ""
	}
}

func (wr Writer) write(ctx context.Context, w io.Writer, p *tree.Package) error {
	if wr.Format == FormatText {
		_, err := io.WriteString(w, Text(p))

		return err
	}

	file, err := fileOf(p)
	if err != nil {
		return err
	}

	var data []byte

	switch wr.Format {
	case FormatYAML:
		var opts []yaml.EncodeOption
		if wr.Indent > 0 {
			opts = append(opts, yaml.Indent(wr.Indent), yaml.IndentSequence(true))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		data, err = yaml.MarshalContext(ctx, file, opts...)
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

	case FormatJSON:
		if wr.Indent > 0 {
			data, err = json.MarshalIndent(file, "", strings.Repeat(" ", wr.Indent))
		} else {
			data, err = json.Marshal(file)
		}

		if err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

	default:
		return pkg.ErrInvalidFormat.With(slog.String("format", wr.Format.String()))
	}

	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	_, err = w.Write(data)

	return err
}

// Text returns the displayed text of every part of p. When p has more than
// one part, each part's text is preceded by a "[kind name]" line.
func Text(p *tree.Package) string {
	var sb strings.Builder

	parts := 0

	for _, part := range p.Parts {
		if part != nil && part.Doc != nil {
			parts++
		}
	}

	for _, part := range p.Parts {
		if part == nil || part.Doc == nil {
			continue
		}

		if parts > 1 {
			sb.WriteString("[" + part.Kind.String() + " " + part.Name + "]\n")
		}

		sb.WriteString(part.Doc.Text(part.Doc.Root()))
	}

	return sb.String()
}
