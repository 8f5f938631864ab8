package cmd

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/fldmerge/docio"
	"github.com/ardnew/fldmerge/field"
	"github.com/ardnew/fldmerge/log"
	"github.com/ardnew/fldmerge/merge"
	"github.com/ardnew/fldmerge/pkg"
	"github.com/ardnew/fldmerge/tree"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the standard output of the kong application in ctx.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// kongVar returns the kong variable named name.
func kongVar(ctx context.Context, name string) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Model.Vars()[name]
	}

	return ""
}

// DataOptions selects the merge data shared by all commands.
type DataOptions struct {
	// Sources are data file paths, "-" for standard input.
	Sources []string
	// Format is used for sources whose extension names no format.
	Format docio.Format
	// Set holds fields stored in every record, overriding the sources.
	Set map[string]string
}

type dataKey struct{}

// WithData returns a new context.Context carrying the data options.
func WithData(ctx context.Context, opts DataOptions) context.Context {
	return context.WithValue(ctx, dataKey{}, opts)
}

func dataFrom(ctx context.Context) DataOptions {
	opts, _ := ctx.Value(dataKey{}).(DataOptions)

	return opts
}

// records reads the merge data records selected by the options in ctx.
// Records of all sources are concatenated in order. The fields of Set are
// stored in every record; with no source at all they form the only record.
func records(ctx context.Context) ([]field.Data, error) {
	opts := dataFrom(ctx)

	var recs []field.Data

	for src := range buildSourceFiles(opts.Sources).all() {
		f, ok := docio.FormatOf(src.name)
		if !ok {
			f = opts.Format
		}

		rs, err := docio.ReadData(ctx, src, f)
		src.close()

		if err != nil {
			return nil, err
		}

		recs = append(recs, rs...)
	}

	if len(recs) == 0 {
		recs = []field.Data{{}}
	}

	for _, rec := range recs {
		for k, v := range opts.Set {
			rec[field.MakeDataFieldName(k)] = v
		}
	}

	log.DebugContext(ctx, "loaded merge data",
		slog.Int("sources", len(opts.Sources)),
		slog.Int("records", len(recs)),
	)

	return recs, nil
}

// newMerger returns a merger logging to the default logger.
func newMerger(opts ...merge.Option) *merge.Merger {
	return merge.New(append([]merge.Option{merge.WithLogger(log.Default())}, opts...)...)
}

// readDocument decodes the document at path, "-" for standard input. The
// format is inferred from the extension, falling back to def.
func readDocument(ctx context.Context, path string, def docio.Format) ([]byte, docio.Format, error) {
	f, ok := docio.FormatOf(path)
	if !ok {
		f = def
	}

	var r io.Reader = os.Stdin

	if path != stdinSource {
		file, err := os.Open(path)
		if err != nil {
			return nil, f, pkg.ErrReadInput.Wrap(err).With(slog.String("file", path))
		}
		defer file.Close()

		r = file
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, f, pkg.ErrReadInput.Wrap(err).With(slog.String("file", path))
	}

	return data, f, nil
}

// decodeDocument reads and decodes the document at path once. Each call of
// the returned function decodes a fresh copy.
func decodeDocument(
	ctx context.Context,
	path string,
	def docio.Format,
) (func() (*tree.Package, error), error) {
	data, f, err := readDocument(ctx, path, def)
	if err != nil {
		return nil, err
	}

	decode := func() (*tree.Package, error) {
		p, err := docio.DecodePackage(ctx, data, f)
		if err != nil {
			return nil, ErrDocument.Wrap(err).With(slog.String("file", path))
		}

		return p, nil
	}

	// Fail early on malformed documents.
	if _, err := decode(); err != nil {
		return nil, err
	}

	return decode, nil
}

type (
	source struct {
		io.Reader

		name string
	}

	sourceFiles struct {
		read     []source
		hasStdin bool
	}
)

// Name returns the path the source was opened from.
func (s source) Name() string { return s.name }

func (s source) close() {
	if c, ok := s.Reader.(io.Closer); ok && s.Reader != os.Stdin {
		_ = c.Close()
	}
}

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool {
	return s == nil || (len(s.read) == 0 && !s.hasStdin)
}

// all yields the opened sources in order, standard input last.
func (s *sourceFiles) all() iter.Seq[source] {
	return func(yield func(source) bool) {
		if s.IsZero() {
			return
		}

		for _, src := range s.read {
			if !yield(src) {
				return
			}
		}

		if s.hasStdin {
			yield(source{Reader: os.Stdin, name: stdinSource})
		}
	}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// buildSourceFiles opens the given source paths.
//
// Sources are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin source
// placed last so it reads after all regular files. Paths that cannot be
// opened are skipped.
func buildSourceFiles(sources []string) *sourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]source, 0, len(sources))
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey

	if stdinInfo, err := os.Stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(stdinInfo)
	}

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		reader, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.read = append(srcs.read, source{Reader: reader, name: src})
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	delete(seen, stdinKey)

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the opened file and true if successful, or nil and false if the file
// is a duplicate or cannot be opened.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.Reader, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
