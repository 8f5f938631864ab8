package repl

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/fldmerge/field"
	"github.com/ardnew/fldmerge/merge"
)

func testSession() *Session {
	return &Session{
		Records: []field.Data{
			field.MakeData(map[string]string{"First Name": "Ann", "City": "Paris"}),
			field.MakeData(map[string]string{"First Name": "Bob"}),
		},
		Merger: merge.New(),
	}
}

func TestSession_Select(t *testing.T) {
	s := testSession()

	if err := s.Select(1); err != nil {
		t.Fatalf("Select(1) error = %v", err)
	}

	if got := s.Index(); got != 1 {
		t.Errorf("Index() = %d, want 1", got)
	}

	for _, i := range []int{-1, 2} {
		if err := s.Select(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Select(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}

	if got := s.Index(); got != 1 {
		t.Errorf("Index() after failed Select = %d, want 1", got)
	}
}

func TestSession_Eval(t *testing.T) {
	tests := []struct {
		name   string
		record int
		code   string
		want   string
		wantOK bool
	}{
		{"merge field", 0, `MERGEFIELD "First Name"`, "Ann", true},
		{"case switch", 0, `MERGEFIELD City \* Upper`, "PARIS", true},
		{"nested", 0, `IF { MERGEFIELD City } = "Paris" yes no`, "yes", true},
		{"other record", 1, `MERGEFIELD "first name"`, "Bob", true},
		{"missing", 1, `MERGEFIELD City`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession()
			if err := s.Select(tt.record); err != nil {
				t.Fatal(err)
			}

			got, ok, err := s.Eval(t.Context(), tt.code)
			if err != nil {
				t.Fatalf("Eval(%q) error = %v", tt.code, err)
			}

			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Eval(%q) = (%q, %v), want (%q, %v)", tt.code, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSession_Replace(t *testing.T) {
	s := testSession()
	_ = s.Select(1)

	s.Replace(field.MakeData(map[string]string{"Zip": "75001"}))

	if diff := cmp.Diff([]string{"zip"}, s.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"city", "first name"}, s.Records[0].Names()); diff != "" {
		t.Errorf("unselected record changed (-want +got):\n%s", diff)
	}
}
