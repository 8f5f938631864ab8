package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/fldmerge/docio"
	"github.com/ardnew/fldmerge/field"
	"github.com/ardnew/fldmerge/log"
)

var (
	partStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	instrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	matchStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Fields lists the fields of every part of a document without resolving them.
type Fields struct {
	Document string       `arg:"" default:"-"    help:"Document file or '-' for stdin"                              optional:"" type:"existingfile"`
	Input    docio.Format `       default:"yaml" help:"Format of a document whose file name has no known extension" placeholder:"FORMAT"`
	Match    string       `                      help:"Only list fields whose instruction fuzzy-matches PATTERN"    placeholder:"PATTERN" short:"m"`
	Nested   bool         `       default:"true" help:"List nested fields below their parent"                       negatable:""`
}

// Run executes the fields command.
func (f *Fields) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	decode, err := decodeDocument(ctx, f.Document, f.Input)
	if err != nil {
		return err
	}

	p, err := decode()
	if err != nil {
		return err
	}

	merger := newMerger()
	out := stdout(ctx)
	count := 0

	for _, part := range p.Parts {
		refs, err := merger.Fields(ctx, part.Doc, part.Doc.Root())
		if err != nil {
			return err
		}

		var top []*field.Ref

		for _, ref := range refs {
			if ref.Depth == 0 {
				top = append(top, ref)
			}
		}

		lines := f.render(top)
		if len(lines) == 0 {
			continue
		}

		fmt.Fprintln(out, partStyle.Render(part.Name)+" "+hintStyle.Render("("+part.Kind.String()+")"))

		for _, line := range lines {
			fmt.Fprintln(out, line)
		}

		count += len(lines)
	}

	log.DebugContext(ctx, "listed fields",
		slog.String("document", f.Document),
		slog.Int("fields", count),
	)

	return nil
}

// render returns one line per listed field.
func (f *Fields) render(top []*field.Ref) []string {
	instr := make([]string, len(top))
	for i, ref := range top {
		instr[i] = describe(ref)
	}

	var lines []string

	if f.Match == "" {
		for i, ref := range top {
			lines = f.walk(lines, ref, instr[i], nil, 0)
		}

		return lines
	}

	for _, m := range fuzzy.Find(f.Match, instr) {
		lines = f.walk(lines, top[m.Index], m.Str, m.MatchedIndexes, 0)
	}

	return lines
}

func (f *Fields) walk(lines []string, ref *field.Ref, text string, matched []int, depth int) []string {
	line := strings.Repeat("  ", depth+1) +
		nameStyle.Render(ref.Name) + "  " +
		highlight(text, matched)

	if res := ref.Result(); res != "" {
		line += "  " + hintStyle.Render("→") + " " + resultStyle.Render(res)
	}

	lines = append(lines, line)

	if !f.Nested {
		return lines
	}

	for _, n := range ref.Nested() {
		lines = f.walk(lines, n, describe(n), nil, depth+1)
	}

	return lines
}

// describe renders the instruction of ref with nested fields in braces.
func describe(ref *field.Ref) string {
	var sb strings.Builder

	for _, t := range ref.Tokens {
		switch t.Kind {
		case field.TokenLiteral:
			sb.WriteString(t.Text)

		case field.TokenField:
			sb.WriteString("{ " + describe(t.Field) + " }")
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

// highlight renders s with the bytes at the matched indexes emphasized.
func highlight(s string, matched []int) string {
	if len(matched) == 0 {
		return instrStyle.Render(s)
	}

	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	var b strings.Builder

	for i, r := range s {
		if set[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(instrStyle.Render(string(r)))
		}
	}

	return b.String()
}
