package field

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/fldmerge/grammar"
	"github.com/ardnew/fldmerge/log"
	"github.com/ardnew/fldmerge/tree"
)

// nestedIf returns a paragraph holding IF {MERGEFIELD key}<rest>.
func nestedIf(key, rest, result string) tree.Spec {
	return tree.P(slices.Concat(
		[]tree.Spec{tree.R(tree.Begin()), tree.R(tree.I("IF "))},
		tree.Simple("MERGEFIELD "+key, "", ""),
		[]tree.Spec{
			tree.R(tree.I(rest)),
			tree.R(tree.Sep()),
			tree.R(tree.T(result)),
			tree.R(tree.End()),
		},
	)...)
}

func TestEngine_Resolve(t *testing.T) {
	data := MakeData(map[string]string{
		"Name":   "Ann",
		"Status": "Gold",
		"Amount": "5",
		"Quote":  `He said "hi"`,
	})

	tests := []struct {
		name   string
		para   tree.Spec
		want   string
		wantOK bool
	}{
		{
			name:   "data lookup",
			para:   tree.P(tree.Simple("MERGEFIELD Name", "«Name»", "")...),
			want:   "Ann",
			wantOK: true,
		},
		{
			name:   "data lookup normalizes key",
			para:   tree.P(tree.Simple(`MERGEFIELD "  name "`, "", "")...),
			want:   "Ann",
			wantOK: true,
		},
		{
			name:   "absent key",
			para:   tree.P(tree.Simple("MERGEFIELD Missing", "old", "")...),
			want:   "",
			wantOK: true,
		},
		{
			name:   "suffix",
			para:   tree.P(tree.Simple(`MERGEFIELD Amount \f x`, "", "")...),
			want:   "5x",
			wantOK: true,
		},
		{
			name:   "prefix",
			para:   tree.P(tree.Simple(`MERGEFIELD Amount \b $`, "", "")...),
			want:   "$5",
			wantOK: true,
		},
		{
			name:   "prefix and suffix",
			para:   tree.P(tree.Simple(`MERGEFIELD Amount \b $ \f x`, "", "")...),
			want:   "$5x",
			wantOK: true,
		},
		{
			name:   "no decoration on empty value",
			para:   tree.P(tree.Simple(`MERGEFIELD Missing \b $ \f x`, "", "")...),
			want:   "",
			wantOK: true,
		},
		{
			name:   "condition true",
			para:   tree.P(tree.Simple(`IF "a" = "a" "yes" "no"`, "", "")...),
			want:   "yes",
			wantOK: true,
		},
		{
			name:   "condition with nested field",
			para:   nestedIf("Status", ` = "Gold" "Thanks" "Sorry"`, "old"),
			want:   "Thanks",
			wantOK: true,
		},
		{
			name:   "condition with nested field false",
			para:   nestedIf("Name", ` = "Gold" "Thanks" "Sorry"`, "old"),
			want:   "Sorry",
			wantOK: true,
		},
		{
			name:   "nested value with quotes",
			para:   nestedIf("Quote", ` = "He said \"hi\"" same different`, "old"),
			want:   "same",
			wantOK: true,
		},
		{
			name:   "nested unresolved compares as empty",
			para:   nestedIf("Missing", ` = "" empty full`, "old"),
			want:   "empty",
			wantOK: true,
		},
		{
			name:   "malformed condition",
			para:   tree.P(tree.Simple(`IF "a" < "b" "yes" "no"`, "", "")...),
			wantOK: false,
		},
		{
			name:   "unknown keyword",
			para:   tree.P(tree.Simple(`DATE \@ "yyyy"`, "2024", "")...),
			wantOK: false,
		},
	}

	engine := NewEngine(nil, log.Logger{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, refs, _ := canonical(t, tree.Body(tt.para))

			got, ok, err := engine.Resolve(t.Context(), refs[0], Env{Data: data})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if ok != tt.wantOK {
				t.Fatalf("Resolve ok = %v, want %v", ok, tt.wantOK)
			}

			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEngine_Instruction(t *testing.T) {
	data := MakeData(map[string]string{"Quote": `He said "hi"`, "Path": `C:\x`})

	tests := []struct {
		name string
		para tree.Spec
		want string
	}{
		{
			name: "nested value is quoted and escaped",
			para: nestedIf("Quote", " = x a b", ""),
			want: `IF "He said \"hi\"" = x a b`,
		},
		{
			name: "backslash is escaped",
			para: nestedIf("Path", " = x a b", ""),
			want: `IF "C:\\x" = x a b`,
		},
		{
			name: "user quotes collapse into the nested quotes",
			para: tree.P(slices.Concat(
				[]tree.Spec{tree.R(tree.Begin()), tree.R(tree.I(`IF "`))},
				tree.Simple("MERGEFIELD Quote", "", ""),
				[]tree.Spec{tree.R(tree.I(`" = x a b`)), tree.R(tree.End())},
			)...),
			want: `IF "He said \"hi\"" = x a b`,
		},
		{
			name: "unresolved nested field",
			para: tree.P(slices.Concat(
				[]tree.Spec{tree.R(tree.Begin()), tree.R(tree.I(`IF `))},
				tree.Simple("NOPE", "", ""),
				[]tree.Spec{tree.R(tree.I(` = x a b`)), tree.R(tree.End())},
			)...),
			want: `IF "" = x a b`,
		},
	}

	engine := NewEngine(nil, log.Logger{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, refs, _ := canonical(t, tree.Body(tt.para))

			got, err := engine.Instruction(t.Context(), refs[0], Env{Data: data})
			if err != nil {
				t.Fatalf("Instruction: %v", err)
			}

			if got != tt.want {
				t.Errorf("Instruction = %q, want %q", got, tt.want)
			}

			if strings.Contains(got, quoteMark) {
				t.Errorf("Instruction %q contains the quote mark", got)
			}
		})
	}
}

func TestEngine_QuotingRoundTrip(t *testing.T) {
	const value = `He said "hi" \o/`

	_, refs, _ := canonical(t, tree.Body(nestedIf("v", " = x a b", "")))

	instr, err := NewEngine(nil, log.Logger{}).Instruction(
		t.Context(), refs[0], Env{Data: MakeData(map[string]string{"v": value})})
	if err != nil {
		t.Fatalf("Instruction: %v", err)
	}

	c, err := grammar.ParseCondition(instr)
	if err != nil {
		t.Fatalf("ParseCondition(%q): %v", instr, err)
	}

	if c.Left != value {
		t.Errorf("re-extracted %q, want %q", c.Left, value)
	}
}

func TestEngine_InvalidToken(t *testing.T) {
	_, refs, _ := canonical(t, tree.Body(tree.P(
		tree.R(tree.Begin()),
		tree.R(tree.I("MERGEFIELD a")),
		tree.Table(),
		tree.R(tree.End()),
	)))

	_, _, err := NewEngine(nil, log.Logger{}).Resolve(t.Context(), refs[0], Env{})
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Resolve error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestEngine_Apply(t *testing.T) {
	body := tree.Body(
		tree.P(tree.Simple("MERGEFIELD Name", "«Name»", "")...),
		tree.P(tree.Simple("UNKNOWN x", "keep", "")...),
		tree.P(tree.Simple(`IF a < b x y`, "bad", "")...),
		nestedIf("Status", ` = "Gold" "Thanks" "Sorry"`, "old"),
	)

	doc, refs, _ := canonical(t, body)

	var calls int

	reg := DefaultRegistry()
	inner := reg[grammar.KeywordMergeField]
	reg.Register("mergefield", ResolverFunc(
		func(ctx context.Context, instr string, env Env) (string, bool) {
			calls++

			return inner.Resolve(ctx, instr, env)
		}))

	data := MakeData(map[string]string{"Name": "Ann", "Status": "Gold"})

	n, err := NewEngine(reg, log.Logger{}).Apply(t.Context(), refs, Env{Data: data})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// Name, IF, and the nested Status field are written.
	if n != 3 {
		t.Errorf("Apply wrote %d slots, want 3", n)
	}

	if calls != 2 {
		t.Errorf("data lookups = %d, want 2 (one per field)", calls)
	}

	if got, want := doc.Text(doc.Root()), "Ann\nkeep\nbad\nThanks\n"; got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestEngine_ApplyCanceled(t *testing.T) {
	_, refs, _ := canonical(t, tree.Body(tree.P(tree.Simple("MERGEFIELD a", "", "")...)))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := NewEngine(nil, log.Logger{}).Apply(ctx, refs, Env{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Apply error = %v, want %v", err, context.Canceled)
	}
}

type recordingFormatter struct {
	lang  string
	model *grammar.Model
	err   error
}

func (f *recordingFormatter) ApplySwitch(_ any, m *grammar.Model, value, lang string) (string, error) {
	f.lang, f.model = lang, m
	if f.err != nil {
		return "", f.err
	}

	return strings.ToUpper(value), nil
}

func TestMergeField_Formatting(t *testing.T) {
	data := MakeData(map[string]string{"Name": "ann"})

	t.Run("language from result run", func(t *testing.T) {
		_, refs, _ := canonical(t, tree.Body(tree.P(
			tree.Simple(`MERGEFIELD Name \* Upper \b "Dear "`, "x", "de-DE")...)))

		f := &recordingFormatter{}

		got, ok, err := NewEngine(nil, log.Logger{}).Resolve(
			t.Context(), refs[0], Env{Data: data, Format: f, Language: "en-US"})
		if err != nil || !ok {
			t.Fatalf("Resolve = %q, %v, %v", got, ok, err)
		}

		if got != "Dear ANN" {
			t.Errorf("Resolve = %q, want %q", got, "Dear ANN")
		}

		if f.lang != "de-DE" {
			t.Errorf("formatter language = %q, want de-DE", f.lang)
		}

		if arg, _ := f.model.Switch("*"); arg != "Upper" {
			t.Errorf("formatter switch = %q, want Upper", arg)
		}
	})

	t.Run("default language", func(t *testing.T) {
		_, refs, _ := canonical(t, tree.Body(tree.P(tree.Simple(`MERGEFIELD Name`, "", "")...)))

		f := &recordingFormatter{}

		if _, _, err := NewEngine(nil, log.Logger{}).Resolve(
			t.Context(), refs[0], Env{Data: data, Format: f, Language: "en-US"}); err != nil {
			t.Fatalf("Resolve: %v", err)
		}

		if f.lang != "en-US" {
			t.Errorf("formatter language = %q, want en-US", f.lang)
		}
	})

	t.Run("formatter error keeps raw value", func(t *testing.T) {
		var buf bytes.Buffer

		logger := log.Make(&buf, log.WithFormat(log.FormatText), log.WithPretty(false),
			log.WithTimeLayout("none"))

		_, refs, _ := canonical(t, tree.Body(tree.P(tree.Simple(`MERGEFIELD Name \f !`, "", "")...)))

		f := &recordingFormatter{err: errors.New("bad picture")}

		got, ok, err := NewEngine(nil, logger).Resolve(t.Context(), refs[0], Env{Data: data, Format: f})
		if err != nil || !ok {
			t.Fatalf("Resolve = %q, %v, %v", got, ok, err)
		}

		if got != "ann!" {
			t.Errorf("Resolve = %q, want %q", got, "ann!")
		}

		if !strings.Contains(buf.String(), "cannot format field") {
			t.Errorf("expected warning in log output, got %q", buf.String())
		}
	})
}

func TestRef_SetResultOnce(t *testing.T) {
	doc, refs, _ := canonical(t, tree.Body(tree.P(tree.Simple("MERGEFIELD a", "old", "nl-NL")...)))

	r := refs[0]
	if err := r.SetResult("new"); err != nil {
		t.Fatalf("SetResult: %v", err)
	}

	if err := r.SetResult("again"); !errors.Is(err, ErrResultSet) {
		t.Errorf("second SetResult error = %v, want %v", err, ErrResultSet)
	}

	if got := r.Result(); got != "new" {
		t.Errorf("Result() = %q, want %q", got, "new")
	}

	run := doc.Node(doc.Node(r.Handle()).Children[0])
	if run.Props.Lang != "nl-NL" {
		t.Errorf("result run language = %q, want nl-NL", run.Props.Lang)
	}
}

func TestDataFieldName(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"First Name", "first name", true},
		{"  First   Name ", "FIRST NAME", true},
		{"First\tName", "first name", true},
		{"FirstName", "First Name", false},
		{"Name", "Names", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			if got := MakeDataFieldName(tt.a) == MakeDataFieldName(tt.b); got != tt.same {
				t.Errorf("equal = %v, want %v", got, tt.same)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	got := suggest("FName", []string{"first name", "last name", "city"})
	if len(got) == 0 || got[0] != "first name" {
		t.Errorf("suggest = %v, want first name first", got)
	}
}
