package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/fldmerge/docio"
	"github.com/ardnew/fldmerge/field"
	"github.com/ardnew/fldmerge/log"
)

const defaultEditor = "vi"

// editRecordCommand implements [tea.ExecCommand] for the edit-parse-retry
// loop over the selected record. The record is written to a temporary YAML
// file, opened in the user's editor, and decoded again. On a decode error
// the user is prompted to re-edit; declining exits the program.
type editRecordCommand struct {
	record  field.Data
	ctxFunc func() context.Context
	logger  log.Logger
	edited  field.Data
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editRecordCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editRecordCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editRecordCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file cancels the edit and leaves
// edited nil. If the user declines to re-edit, it returns [ErrEditDeclined].
func (c *editRecordCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := marshalRecord(c.record)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(os.TempDir(), "fldmerge-record-*.yaml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		content, err = os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(content)) == "" {
			return nil
		}

		rec, decodeErr := unmarshalRecord(ctx, content)
		c.logger.TraceContext(
			ctx,
			"editor decode attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.edited = rec

			return nil
		}

		fmt.Fprintf(c.stderr, "\nDecode error: %s\n", decodeErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// marshalRecord renders rec as a YAML mapping sorted by name.
func marshalRecord(rec field.Data) ([]byte, error) {
	var m yaml.MapSlice

	for _, name := range rec.Names() {
		v, _ := rec.Lookup(name)
		m = append(m, yaml.MapItem{Key: name, Value: v})
	}

	if len(m) == 0 {
		return []byte("# name: value\n"), nil
	}

	return yaml.Marshal(m)
}

// unmarshalRecord decodes a single record from YAML.
func unmarshalRecord(ctx context.Context, content []byte) (field.Data, error) {
	recs, err := docio.DecodeData(ctx, content, docio.FormatYAML)
	if err != nil {
		return nil, err
	}

	if len(recs) != 1 {
		return nil, ErrRecordCount
	}

	return recs[0], nil
}

// runEditor runs the user's editor on the file at path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
