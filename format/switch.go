// Package format applies the formatting switches of a field instruction to
// a resolved value.
//
// Three switches are understood:
//
//	\* Upper | Lower | Caps | FirstCap | MERGEFORMAT | CHARFORMAT
//	\# numeric picture, for example "$#,##0.00" or "0.0;(0.0)"
//	\@ date picture, for example "d MMMM yyyy" or "HH:mm"
//
// Case and numeric output follow the language tag passed with the value.
package format

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/fldmerge/grammar"
	"github.com/ardnew/fldmerge/pkg"
)

var (
	// ErrFormat is returned when a switch cannot be applied to a value.
	ErrFormat = pkg.NewError("formatting error")

	// ErrLanguage is returned for a language tag that cannot be parsed.
	ErrLanguage = pkg.NewError("invalid language tag")
)

// Switches is the default field formatter.
type Switches struct {
	// Fallback is the language used when a value carries no language tag.
	// The zero value means undetermined.
	Fallback language.Tag
}

// ApplySwitch applies the \#, \@ and \* switches of model to value in order
// of appearance. Other switches are left to the field's resolver.
func (s Switches) ApplySwitch(_ any, model *grammar.Model, value, lang string) (string, error) {
	if model == nil {
		return value, nil
	}

	tag, err := s.tag(lang)
	if err != nil {
		return value, err
	}

	for _, sw := range model.Switches {
		switch sw.Name {
		case "#":
			value, err = Number(value, sw.Arg, tag)

		case "@":
			value, err = Date(value, sw.Arg, tag)

		case "*":
			value, err = Case(value, sw.Arg, tag)

		default:
			continue
		}

		if err != nil {
			return value, err
		}
	}

	return value, nil
}

func (s Switches) tag(lang string) (language.Tag, error) {
	if strings.TrimSpace(lang) == "" {
		return s.Fallback, nil
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return s.Fallback, ErrLanguage.Wrap(err).With(slog.String("lang", lang))
	}

	return tag, nil
}

// Case applies a \* case switch.
func Case(value, arg string, tag language.Tag) (string, error) {
	switch strings.ToUpper(arg) {
	case "UPPER":
		return cases.Upper(tag).String(value), nil

	case "LOWER":
		return cases.Lower(tag).String(value), nil

	case "CAPS":
		return cases.Title(tag, cases.NoLower).String(value), nil

	case "FIRSTCAP":
		r, n := utf8.DecodeRuneInString(value)
		if r == utf8.RuneError || !unicode.IsLetter(r) {
			return value, nil
		}

		return cases.Upper(tag).String(value[:n]) + value[n:], nil

	case "MERGEFORMAT", "CHARFORMAT":
		return value, nil

	default:
		return value, ErrFormat.With(
			slog.String("switch", `\*`),
			slog.String("arg", arg),
		)
	}
}
