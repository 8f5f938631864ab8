package merge

import (
	"log/slog"

	"github.com/ardnew/fldmerge/tree"
)

// PartReport counts the fields of one merged part.
type PartReport struct {
	Part string
	Kind tree.PartKind
	// Located is the number of top-level fields found.
	Located int
	// Fields is the number of fields, nested ones included.
	Fields int
	// Written is the number of result slots replaced.
	Written int
}

// LogValue implements [slog.LogValuer].
func (r PartReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("part", r.Part),
		slog.String("kind", r.Kind.String()),
		slog.Int("located", r.Located),
		slog.Int("fields", r.Fields),
		slog.Int("written", r.Written),
	)
}

// Report summarizes a merge. It is diagnostic only.
type Report struct {
	Parts []PartReport
}

// Located returns the number of top-level fields found in all parts.
func (r Report) Located() int {
	n := 0
	for _, p := range r.Parts {
		n += p.Located
	}

	return n
}

// Fields returns the number of fields in all parts.
func (r Report) Fields() int {
	n := 0
	for _, p := range r.Parts {
		n += p.Fields
	}

	return n
}

// Written returns the number of result slots replaced in all parts.
func (r Report) Written() int {
	n := 0
	for _, p := range r.Parts {
		n += p.Written
	}

	return n
}
