package grammar

import (
	"log/slog"
	"strings"
	"unicode"
)

// Switch is one backslash directive of a field instruction, such as
// \* Upper or \# "0.00".
type Switch struct {
	// Name is the switch character without its backslash.
	Name string
	// Arg is the unquoted argument, empty for flag switches.
	Arg string
}

// Model is the parsed form of a field instruction: its keyword, positional
// arguments, and switches in order of appearance.
type Model struct {
	Keyword  string
	Args     []string
	Switches []Switch
}

// Switch returns the argument of the first switch named name.
func (m *Model) Switch(name string) (string, bool) {
	for _, s := range m.Switches {
		if s.Name == name {
			return s.Arg, true
		}
	}

	return "", false
}

// SwitchesNamed returns every switch named name, in order.
func (m *Model) SwitchesNamed(name string) []Switch {
	var out []Switch

	for _, s := range m.Switches {
		if s.Name == name {
			out = append(out, s)
		}
	}

	return out
}

// switchTakesArg reports whether the switch consumes the following word.
func switchTakesArg(name string) bool {
	switch name {
	case "*", "#", "@", "b", "f":
		return true
	default:
		return false
	}
}

// ParseModel splits instruction into words and classifies them. Quoted words
// may contain whitespace; inside quotes a backslash escapes the next
// character. Outside quotes a word starting with a backslash is a switch.
func ParseModel(instruction string) (*Model, error) {
	words, err := splitWords(instruction)
	if err != nil {
		return nil, err
	}

	m := &Model{}
	if len(words) == 0 {
		return m, nil
	}

	m.Keyword = strings.ToUpper(words[0].text)

	for i := 1; i < len(words); i++ {
		w := words[i]
		if w.quoted || !strings.HasPrefix(w.text, `\`) || len(w.text) < 2 {
			m.Args = append(m.Args, w.text)

			continue
		}

		s := Switch{Name: w.text[1:]}
		if switchTakesArg(s.Name) && i+1 < len(words) {
			i++
			s.Arg = words[i].text
		}

		m.Switches = append(m.Switches, s)
	}

	return m, nil
}

type word struct {
	text   string
	quoted bool
}

func splitWords(s string) ([]word, error) {
	var (
		words []word
		sb    strings.Builder
		rs    = []rune(s)
	)

	for i := 0; i < len(rs); {
		for i < len(rs) && unicode.IsSpace(rs[i]) {
			i++
		}

		if i >= len(rs) {
			break
		}

		if rs[i] != '"' {
			start := i
			for i < len(rs) && !unicode.IsSpace(rs[i]) {
				i++
			}

			words = append(words, word{text: string(rs[start:i])})

			continue
		}

		sb.Reset()

		closed := false

		for i++; i < len(rs); i++ {
			if rs[i] == '\\' && i+1 < len(rs) {
				i++
				sb.WriteRune(rs[i])

				continue
			}

			if rs[i] == '"' {
				i++
				closed = true

				break
			}

			sb.WriteRune(rs[i])
		}

		if !closed {
			return nil, ErrParse.With(
				slog.String("error", "unterminated quote"),
				slog.String("instruction", s),
			)
		}

		words = append(words, word{text: sb.String(), quoted: true})
	}

	return words, nil
}
