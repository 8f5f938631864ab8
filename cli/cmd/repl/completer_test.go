package repl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "MERGE", 5, "MERGE", 0, 5},
		{"second_word", "MERGEFIELD Na", 13, "Na", 11, 13},
		{"after_brace", "IF {MERGEFIELD", 14, "MERGEFIELD", 4, 14},
		{"empty_at_boundary", "MERGEFIELD ", 11, "", 11, 11},
		{"quoted", `MERGEFIELD "First`, 17, `"First`, 11, 17},
		{"mid_word", "{ IF }", 3, "IF", 2, 4},
		{"at_start", "IF", 0, "IF", 0, 2},
		{"switch", `MERGEFIELD x \*`, 15, `\*`, 13, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestCodeCandidates(t *testing.T) {
	keywords := []string{"IF", "MERGEFIELD"}
	names := []string{"city", "first name"}

	tests := []struct {
		name      string
		input     string
		wordStart int
		word      string
		want      []string
	}{
		{"keyword", "MER", 0, "MER", keywords},
		{"nested_keyword", "IF { MER", 5, "MER", keywords},
		{"data_name", "MERGEFIELD Fi", 11, "Fi", []string{"city", `"first name"`}},
		{"switch", `MERGEFIELD city \`, 16, `\`, mergeFieldSwitches},
		{"case_name", `MERGEFIELD city \* Up`, 19, "Up", caseNames},
		{"operator", "IF x =", 5, "=", ifOperators},
		{"plain_argument", "MERGEFIELD city x", 16, "x", nil},
		{"if_branch", "IF x = y th", 9, "th", nil},
		{"unknown_field", "PAGE x", 5, "x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codeCandidates(tt.input, tt.wordStart, tt.word, keywords, names)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("codeCandidates(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestQuoteNames(t *testing.T) {
	got := quoteNames([]string{"city", "first name", "zip\tcode"})
	want := []string{"city", `"first name"`, "\"zip\tcode\""}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("quoteNames() mismatch (-want +got):\n%s", diff)
	}
}
