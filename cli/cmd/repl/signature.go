package repl

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// fieldSignature describes the syntax of one field type. Switches name the
// parameter their argument fills.
type fieldSignature struct {
	params   []string
	switches map[string]int
}

var signatures = map[string]fieldSignature{
	"MERGEFIELD": {
		params: []string{
			"name",
			`[\b prefix]`,
			`[\f suffix]`,
			`[\* case]`,
			`[\# number]`,
			`[\@ date]`,
		},
		switches: map[string]int{`\b`: 1, `\f`: 2, `\*`: 3, `\#`: 4, `\@`: 5},
	},
	"IF": {
		params: []string{"left", "operator", "right", "then", "else"},
	},
}

// Styles of the signature hint.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// fieldCode describes the field code the cursor is in.
type fieldCode struct {
	name string   // upper-cased keyword
	args []string // argument words before the cursor
	// partial reports whether the last argument is still being typed.
	partial bool
	inCode  bool // true once the keyword is complete
}

// argIndex returns the index of the argument under the cursor.
func (c fieldCode) argIndex() int {
	if c.partial {
		return len(c.args) - 1
	}

	return len(c.args)
}

// detectFieldCode analyzes the input before cursor. Only the innermost
// unclosed brace group is considered, so a nested field is described on its
// own.
func detectFieldCode(input string, cursor int) fieldCode {
	if cursor > len(input) {
		cursor = len(input)
	}

	code := input[codeStart(input, cursor):cursor]

	words, partial := codeWords(code)
	if len(words) == 0 || (len(words) == 1 && partial) {
		return fieldCode{}
	}

	return fieldCode{
		name:    strings.ToUpper(words[0]),
		args:    words[1:],
		partial: partial,
		inCode:  true,
	}
}

// codeStart returns the offset following the innermost brace left open
// before cursor, or zero.
func codeStart(input string, cursor int) int {
	var (
		open    []int
		quoted  bool
		escaped bool
	)

	for i, r := range input[:cursor] {
		switch {
		case escaped:
			escaped = false

		case quoted && r == '\\':
			escaped = true

		case r == '"':
			quoted = !quoted

		case !quoted && r == '{':
			open = append(open, i+1)

		case !quoted && r == '}' && len(open) > 0:
			open = open[:len(open)-1]
		}
	}

	if len(open) == 0 {
		return 0
	}

	return open[len(open)-1]
}

// codeWords splits a field code into words. Quoted text and brace groups
// are single words. partial reports whether the code ends inside a word.
func codeWords(code string) (words []string, partial bool) {
	var (
		sb      strings.Builder
		quoted  bool
		escaped bool
		depth   int
	)

	for _, r := range code {
		switch {
		case escaped:
			escaped = false

		case quoted && r == '\\':
			escaped = true

		case r == '"':
			quoted = !quoted

		case !quoted && r == '{':
			depth++

		case !quoted && r == '}' && depth > 0:
			depth--

		case !quoted && depth == 0 && unicode.IsSpace(r):
			if sb.Len() > 0 {
				words = append(words, sb.String())
				sb.Reset()
			}

			continue
		}

		sb.WriteRune(r)
	}

	if sb.Len() > 0 {
		words = append(words, sb.String())
		partial = true
	}

	return words, partial
}

// currentParam returns the index of the signature parameter filled by the
// argument under the cursor, or -1.
func currentParam(sig fieldSignature, code fieldCode) int {
	idx := code.argIndex()

	if sig.switches == nil {
		if idx < len(sig.params) {
			return idx
		}

		return -1
	}

	if idx < len(code.args) {
		if p, ok := sig.switches[code.args[idx]]; ok {
			return p
		}
	}

	if idx > 0 {
		if p, ok := sig.switches[code.args[idx-1]]; ok {
			return p
		}
	}

	if idx == 0 {
		return 0
	}

	return -1
}

// signatureHint renders the syntax of the field code under the cursor with
// the current parameter highlighted, or "" for unknown field types.
func signatureHint(code fieldCode) string {
	sig, ok := signatures[code.name]
	if !ok || !code.inCode {
		return ""
	}

	return renderSignatureHint(code.name, sig.params, currentParam(sig, code))
}

// renderSignatureHint renders a field signature with the parameter at
// current highlighted.
func renderSignatureHint(name string, params []string, current int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))

	for i, param := range params {
		b.WriteString(signatureStyle.Render(" "))

		if i == current {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	return b.String()
}
