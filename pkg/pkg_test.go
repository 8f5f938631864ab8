package pkg

import (
	"errors"
	"log/slog"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "fldmerge"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew")
	}
}

func TestError_MessageFormats(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message only", NewError("boom"), "boom"},
		{"message and cause", NewError("boom").Wrap(errors.New("why")), "boom: why"},
		{"cause only", WrapError(errors.New("why")), "why"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsMatchesDerivedSentinel(t *testing.T) {
	sentinel := NewError("sentinel")
	other := NewError("other")

	derived := sentinel.With(slog.Int("index", 3)).Wrap(errors.New("cause"))
	if !errors.Is(derived, sentinel) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(derived, other) {
		t.Error("derived error matches an unrelated sentinel")
	}

	outer := ErrMerge.Wrap(derived)
	if !errors.Is(outer, sentinel) {
		t.Error("wrapped chain does not match inner sentinel")
	}

	if !errors.Is(outer, ErrMerge) {
		t.Error("wrapped chain does not match outer sentinel")
	}
}

func TestError_WithDoesNotMutateReceiver(t *testing.T) {
	base := NewError("base").With(slog.String("a", "1"))
	_ = base.With(slog.String("b", "2"))

	if n := len(base.Attrs()); n != 1 {
		t.Errorf("expected receiver to keep 1 attr, got %d", n)
	}
}

func TestError_LogValue(t *testing.T) {
	err := NewError("bad").Wrap(errors.New("cause")).With(slog.Int("n", 1))

	v := err.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("expected group value, got %v", v.Kind())
	}

	keys := make([]string, 0, 3)
	for _, a := range v.Group() {
		keys = append(keys, a.Key)
	}

	if !slices.Equal(keys, []string{"error", "cause", "n"}) {
		t.Errorf("unexpected attr keys %v", keys)
	}
}
