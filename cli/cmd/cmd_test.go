package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/fldmerge/field"
)

const letterYAML = `
body:
  children:
    - kind: p
      children:
        - {kind: r, children: [{text: "Dear "}]}
        - {kind: r, children: [{char: begin}, {kind: instr, text: ' MERGEFIELD "First Name" '}, {char: end}]}
        - {kind: r, children: [{text: ","}]}
`

const recordsYAML = `
- First Name: Ann
  City: Paris
- First Name: Bob
`

// writeFile writes content to name below dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// testContext returns a context carrying a kong context whose output is
// captured in the returned buffer.
func testContext(t *testing.T, vars kong.Vars) (context.Context, *bytes.Buffer) {
	t.Helper()

	var (
		cli struct{}
		buf bytes.Buffer
	)

	parser, err := kong.New(&cli, vars, kong.Writers(&buf, &buf))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx), &buf
}

func TestBuildSourceFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "x: 1")
	b := writeFile(t, dir, "b.yaml", "y: 2")

	link := filepath.Join(dir, "link.yaml")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		sources []string
		want    []string
	}{
		{"empty", nil, nil},
		{"single", []string{a}, []string{a}},
		{"ordered", []string{b, a}, []string{b, a}},
		{"duplicate_path", []string{a, a}, []string{a}},
		{"duplicate_symlink", []string{a, link, b}, []string{a, b}},
		{"missing_skipped", []string{filepath.Join(dir, "none.yaml"), b}, []string{b}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcs := buildSourceFiles(tt.sources)

			var got []string

			for src := range srcs.all() {
				got = append(got, src.Name())
				src.close()
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("sources mismatch (-want +got):\n%s", diff)
			}

			if srcs.IsZero() != (len(tt.want) == 0) {
				t.Errorf("IsZero() = %v with %d sources", srcs.IsZero(), len(tt.want))
			}
		})
	}
}

func TestRecords(t *testing.T) {
	dir := t.TempDir()
	yml := writeFile(t, dir, "people.yaml", recordsYAML)
	js := writeFile(t, dir, "more.json", `[{"First Name": "Cy", "Age": 30}]`)
	noext := writeFile(t, dir, "people", recordsYAML)

	tests := []struct {
		name string
		opts DataOptions
		want []map[string]string
	}{
		{
			name: "no_sources",
			want: []map[string]string{{}},
		},
		{
			name: "set_only",
			opts: DataOptions{Set: map[string]string{"City": "Rome"}},
			want: []map[string]string{{"City": "Rome"}},
		},
		{
			name: "concatenated",
			opts: DataOptions{Sources: []string{yml, js}},
			want: []map[string]string{
				{"First Name": "Ann", "City": "Paris"},
				{"First Name": "Bob"},
				{"First Name": "Cy", "Age": "30"},
			},
		},
		{
			name: "set_overrides",
			opts: DataOptions{
				Sources: []string{yml},
				Set:     map[string]string{"city": "Rome"},
			},
			want: []map[string]string{
				{"First Name": "Ann", "City": "Rome"},
				{"First Name": "Bob", "City": "Rome"},
			},
		},
		{
			name: "default_format",
			opts: DataOptions{Sources: []string{noext}},
			want: []map[string]string{
				{"First Name": "Ann", "City": "Paris"},
				{"First Name": "Bob"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := records(WithData(t.Context(), tt.opts))
			if err != nil {
				t.Fatalf("records() error = %v", err)
			}

			want := make([]field.Data, len(tt.want))
			for i, m := range tt.want {
				want[i] = field.MakeData(m)
			}

			if diff := cmp.Diff(want, got, cmp.AllowUnexported(field.DataFieldName{})); diff != "" {
				t.Errorf("records() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecords_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "42")

	if _, err := records(WithData(t.Context(), DataOptions{Sources: []string{path}})); err == nil {
		t.Error("records() error = nil, want error for scalar data")
	}
}
