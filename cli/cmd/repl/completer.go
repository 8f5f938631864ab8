package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/fldmerge/field"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "list", "record", "next", "prev", "edit", "clear", "quit",
}

// mergeFieldSwitches are the switches accepted by MERGEFIELD.
var mergeFieldSwitches = []string{`\b`, `\f`, `\*`, `\#`, `\@`}

// caseNames are the arguments of the \* switch.
var caseNames = []string{
	"Upper", "Lower", "Caps", "FirstCap", "MERGEFORMAT", "CHARFORMAT",
}

// ifOperators are the comparison operators of IF.
var ifOperators = []string{"=", "<>"}

// isWordBoundary reports whether r delimits a completion word. Quotes are
// part of the word so quoted data names complete as a unit.
func isWordBoundary(r rune) bool {
	return r == '{' || r == '}' || unicode.IsSpace(r)
}

// wordBounds returns the word at the cursor position and its byte
// boundaries within input. The word is empty when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// codeCandidates returns the completions for a word of a field code
// starting at wordStart. keywords are the known field types and names the
// data names of the selected record.
func codeCandidates(input string, wordStart int, word string, keywords, names []string) []string {
	code := detectFieldCode(input, wordStart)
	if !code.inCode {
		return keywords
	}

	switch code.name {
	case "MERGEFIELD":
		if strings.HasPrefix(word, `\`) {
			return mergeFieldSwitches
		}

		idx := code.argIndex()
		if idx > 0 && code.args[idx-1] == `\*` {
			return caseNames
		}

		if idx == 0 {
			return quoteNames(names)
		}

	case "IF":
		if code.argIndex() == 1 {
			return ifOperators
		}
	}

	return nil
}

// quoteNames quotes the names containing whitespace.
func quoteNames(names []string) []string {
	quoted := make([]string, len(names))

	for i, name := range names {
		if strings.ContainsFunc(name, unicode.IsSpace) {
			name = `"` + name + `"`
		}

		quoted[i] = name
	}

	return quoted
}

// keywords returns the field types known to the default registry.
func keywords() []string { return field.DefaultRegistry().Names() }

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches ranked best-first, the candidate list, and
// the word boundaries. An empty word has no matches so the hint line stays
// visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = codeCandidates(input, wordStart, word, m.keywords, m.session.Names())
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width. The selected candidate uses the selected style while
// tabbing.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchedStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
