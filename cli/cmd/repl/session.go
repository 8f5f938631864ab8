package repl

import (
	"context"

	"github.com/ardnew/fldmerge/field"
	"github.com/ardnew/fldmerge/merge"
)

// Session is the merge data a REPL evaluates field codes against. One
// record is selected at a time.
type Session struct {
	Records []field.Data
	Merger  *merge.Merger

	index int
}

// Len returns the number of records.
func (s *Session) Len() int { return len(s.Records) }

// Index returns the index of the selected record.
func (s *Session) Index() int { return s.index }

// Record returns the selected record, or nil if there is none.
func (s *Session) Record() field.Data {
	if s.index < 0 || s.index >= len(s.Records) {
		return nil
	}

	return s.Records[s.index]
}

// Select selects the record at index i.
func (s *Session) Select(i int) error {
	if i < 0 || i >= len(s.Records) {
		return ErrOutOfBounds
	}

	s.index = i

	return nil
}

// Replace replaces the selected record.
func (s *Session) Replace(d field.Data) {
	if s.index >= 0 && s.index < len(s.Records) {
		s.Records[s.index] = d
	}
}

// Eval resolves a field code against the selected record.
func (s *Session) Eval(ctx context.Context, code string) (string, bool, error) {
	return s.Merger.Eval(ctx, code, s.Record())
}

// Names returns the field names of the selected record.
func (s *Session) Names() []string { return s.Record().Names() }
