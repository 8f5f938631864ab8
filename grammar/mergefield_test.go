package grammar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDataKey(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		mismatched bool
	}{
		{name: "bare key", input: `MERGEFIELD Name`, want: "Name"},
		{name: "bare key with switch", input: ` MERGEFIELD  Name \* Upper `, want: "Name"},
		{name: "quoted key with space", input: `MERGEFIELD "First Name" \b Dear`, want: "First Name"},
		{name: "lowercase keyword", input: `mergefield city`, want: "city"},
		{
			name:       "missing closing quote",
			input:      `MERGEFIELD "First Name \* Upper`,
			want:       "First",
			mismatched: true,
		},
		{
			name:       "missing closing quote without space",
			input:      `MERGEFIELD "Name`,
			want:       "Name",
			mismatched: true,
		},
		{name: "no key", input: `MERGEFIELD`, want: ""},
		{name: "other keyword", input: `DOCVARIABLE Title`, want: "Title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mismatched := DataKey(tt.input)
			if got != tt.want {
				t.Errorf("DataKey(%q) = %q, want %q", tt.input, got, tt.want)
			}

			if mismatched != tt.mismatched {
				t.Errorf("mismatched = %v, want %v", mismatched, tt.mismatched)
			}
		})
	}
}

func TestDecorate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		input string
		want  string
	}{
		{name: "suffix token", value: "5", input: `MERGEFIELD n \f x`, want: "5x"},
		{name: "prefix token", value: "5", input: `MERGEFIELD n \b $`, want: "$5"},
		{name: "both", value: "5", input: `MERGEFIELD n \b $ \f x`, want: "$5x"},
		{name: "quoted prefix", value: "Ann", input: `MERGEFIELD n \b "Dear "`, want: "Dear Ann"},
		{name: "empty quoted prefix", value: "Ann", input: `MERGEFIELD n \b ""`, want: "Ann"},
		{name: "escape kept raw", value: "v", input: `MERGEFIELD n \f "\"!"`, want: `v\"!`},
		{name: "no switches", value: "v", input: `MERGEFIELD n \* Upper`, want: "v"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decorate(tt.value, tt.input); got != tt.want {
				t.Errorf("Decorate(%q, %q) = %q, want %q", tt.value, tt.input, got, tt.want)
			}
		})
	}
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Model
	}{
		{
			name:  "keyword only",
			input: `mergefield`,
			want:  &Model{Keyword: "MERGEFIELD"},
		},
		{
			name:  "arguments and switches",
			input: `MERGEFIELD "First Name" \* Upper \b "Dear " \v`,
			want: &Model{
				Keyword: "MERGEFIELD",
				Args:    []string{"First Name"},
				Switches: []Switch{
					{Name: "*", Arg: "Upper"},
					{Name: "b", Arg: "Dear "},
					{Name: "v"},
				},
			},
		},
		{
			name:  "numeric picture",
			input: `MERGEFIELD Price \# "$#,##0.00"`,
			want: &Model{
				Keyword:  "MERGEFIELD",
				Args:     []string{"Price"},
				Switches: []Switch{{Name: "#", Arg: "$#,##0.00"}},
			},
		},
		{
			name:  "quoted backslash is an argument",
			input: `IF "\\x" = y a b`,
			want: &Model{
				Keyword: "IF",
				Args:    []string{`\x`, "=", "y", "a", "b"},
			},
		},
		{
			name:  "empty",
			input: "   ",
			want:  &Model{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModel(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseModel(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseModel_Unterminated(t *testing.T) {
	if _, err := ParseModel(`MERGEFIELD "Name`); err == nil {
		t.Error("expected error for unterminated quote")
	}
}

func TestModel_Switch(t *testing.T) {
	m, err := ParseModel(`MERGEFIELD x \* Upper \* FirstCap \@ "d MMM"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if arg, ok := m.Switch("@"); !ok || arg != "d MMM" {
		t.Errorf(`Switch("@") = %q, %v`, arg, ok)
	}

	if _, ok := m.Switch("#"); ok {
		t.Error(`Switch("#") reported present`)
	}

	if got := len(m.SwitchesNamed("*")); got != 2 {
		t.Errorf(`len(SwitchesNamed("*")) = %d, want 2`, got)
	}
}
