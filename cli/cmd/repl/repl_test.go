package repl

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/fldmerge/log"
)

func testModel(t *testing.T) model {
	t.Helper()

	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(t.Context(), testSession(), h, log.Make(io.Discard))
}

func TestModel_Evaluate(t *testing.T) {
	m := testModel(t)

	tests := []struct {
		code string
		want string
	}{
		{`MERGEFIELD City`, "Paris"},
		{`MERGEFIELD City \b "in "`, "in Paris"},
		{`PAGE`, "(no value)"},
	}

	for _, tt := range tests {
		if got := m.evaluate(tt.code); !strings.Contains(got, tt.want) {
			t.Errorf("evaluate(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestModel_SelectRecord(t *testing.T) {
	m := testModel(t)

	if got := m.selectOffset(1); !strings.Contains(got, "record 2 of 2") {
		t.Errorf("selectOffset(1) = %q", got)
	}

	if got := m.selectOffset(1); !strings.Contains(got, "out of range") {
		t.Errorf("selectOffset(1) past end = %q", got)
	}

	if got := m.selectRecord([]string{"x"}); !strings.Contains(got, "invalid record number") {
		t.Errorf("selectRecord(x) = %q", got)
	}

	if got := m.selectRecord([]string{"1"}); !strings.Contains(got, "record 1 of 2") {
		t.Errorf("selectRecord(1) = %q", got)
	}
}

func TestModel_ListRecord(t *testing.T) {
	m := testModel(t)

	got := m.listRecord()
	for _, want := range []string{"city", "Paris", "first name", "Ann"} {
		if !strings.Contains(got, want) {
			t.Errorf("listRecord() = %q, missing %q", got, want)
		}
	}
}

func TestModel_Complete(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("MERGEFIELD ci")
	m.input.SetCursor(len("MERGEFIELD ci"))
	refreshMatches(&m, false)

	if len(m.matches) != 1 {
		t.Fatalf("matches = %v, want one", m.matches)
	}

	m = m.cycle(1)

	if got := m.input.Value(); got != "MERGEFIELD city" {
		t.Errorf("input after completion = %q", got)
	}
}

func TestModel_SwitchMode(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("MERGEFIELD x")
	m = m.switchToMode(modeCtrl)

	if m.input.Value() != "" {
		t.Errorf("control input = %q, want empty", m.input.Value())
	}

	m.input.SetValue("list")
	m = m.switchToMode(modeEval)

	if got := m.input.Value(); got != "MERGEFIELD x" {
		t.Errorf("restored eval input = %q", got)
	}
}
