package format

import (
	"errors"
	"testing"

	"golang.org/x/text/language"

	"github.com/ardnew/fldmerge/grammar"
)

func TestCase(t *testing.T) {
	tests := []struct {
		arg   string
		value string
		want  string
	}{
		{"Upper", "ann smith", "ANN SMITH"},
		{"upper", "ann smith", "ANN SMITH"},
		{"Lower", "Ann SMITH", "ann smith"},
		{"Caps", "ann smith", "Ann Smith"},
		{"FirstCap", "ann smith", "Ann smith"},
		{"FirstCap", "1st place", "1st place"},
		{"MERGEFORMAT", "aNn", "aNn"},
		{"CHARFORMAT", "aNn", "aNn"},
	}

	for _, tt := range tests {
		t.Run(tt.arg+"/"+tt.value, func(t *testing.T) {
			got, err := Case(tt.value, tt.arg, language.English)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Case(%q, %q) = %q, want %q", tt.value, tt.arg, got, tt.want)
			}
		})
	}

	if _, err := Case("x", "Sideways", language.English); !errors.Is(err, ErrFormat) {
		t.Errorf("unknown case switch error = %v, want %v", err, ErrFormat)
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name  string
		value string
		pic   string
		tag   language.Tag
		want  string
	}{
		{"grouped decimals", "1234.5", "#,##0.00", language.English, "1,234.50"},
		{"no grouping", "1234.5", "0.00", language.English, "1234.50"},
		{"literal prefix", "1234", "$#,##0", language.English, "$1,234"},
		{"quoted suffix", "12", "0' kg'", language.English, "12 kg"},
		{"grouped input", "1,234", "0", language.English, "1234"},
		{"negative section", "-5", "0.0;(0.0)", language.English, "(5.0)"},
		{"german separators", "1234.5", "#,##0.00", language.German, "1.234,50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Number(tt.value, tt.pic, tt.tag)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Number(%q, %q) = %q, want %q", tt.value, tt.pic, got, tt.want)
			}
		})
	}

	if _, err := Number("abc", "0", language.English); !errors.Is(err, ErrFormat) {
		t.Errorf("non-numeric error = %v, want %v", err, ErrFormat)
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		pic   string
		tag   language.Tag
		want  string
	}{
		{"long date", "2024-03-05", "d MMMM yyyy", language.English, "5 March 2024"},
		{"weekday", "2024-03-05", "dddd", language.English, "Tuesday"},
		{"short numeric", "2024-03-05", "dd/MM/yy", language.English, "05/03/24"},
		{"quoted literal", "2024-03-05", "'Day' d", language.English, "Day 5"},
		{"clock", "2024-03-05T14:07:09Z", "HH:mm:ss", language.English, "14:07:09"},
		{"twelve hour", "2024-03-05T14:07:09Z", "h:mm AM/PM", language.English, "2:07 PM"},
		{"german month", "2024-03-05", "d. MMMM yyyy", language.German, "5. März 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.value, tt.pic, tt.tag)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Date(%q, %q) = %q, want %q", tt.value, tt.pic, got, tt.want)
			}
		})
	}

	if _, err := Date("someday", "yyyy", language.English); !errors.Is(err, ErrFormat) {
		t.Errorf("unparseable date error = %v, want %v", err, ErrFormat)
	}
}

func TestSwitches_ApplySwitch(t *testing.T) {
	tests := []struct {
		name    string
		instr   string
		value   string
		lang    string
		want    string
		wantErr error
	}{
		{
			name:  "numeric picture",
			instr: `MERGEFIELD Amount \# "#,##0.00" \* MERGEFORMAT`,
			value: "1234.5",
			lang:  "en-US",
			want:  "1,234.50",
		},
		{
			name:  "case then prefix untouched",
			instr: `MERGEFIELD Name \* Upper \b "Dear "`,
			value: "ann",
			want:  "ANN",
		},
		{
			name:  "switches apply in order",
			instr: `MERGEFIELD Day \@ "MMMM" \* Upper`,
			value: "2024-03-05",
			lang:  "en",
			want:  "MARCH",
		},
		{
			name:    "bad language",
			instr:   `MERGEFIELD Name \* Upper`,
			value:   "ann",
			lang:    "not a tag!",
			wantErr: ErrLanguage,
		},
		{
			name:    "bad number",
			instr:   `MERGEFIELD Amount \# 0`,
			value:   "lots",
			wantErr: ErrFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := grammar.ParseModel(tt.instr)
			if err != nil {
				t.Fatalf("ParseModel: %v", err)
			}

			got, err := Switches{}.ApplySwitch(nil, model, tt.value, tt.lang)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("ApplySwitch = %q, want %q", got, tt.want)
			}
		})
	}
}
