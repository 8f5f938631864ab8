package format

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// dateLayouts are the layouts tried, in order, when parsing a date value.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2 January 2006",
	"January 2, 2006",
	"15:04:05",
	"15:04",
}

// datePicture maps date picture elements to layout elements, longest first.
var datePicture = []struct{ pic, layout string }{
	{"yyyy", "2006"},
	{"yy", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"dd", "02"},
	{"d", "2"},
	{"HH", "15"},
	{"H", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"AM/PM", "PM"},
	{"am/pm", "pm"},
}

// ParseDate parses value with the first matching layout of a fixed list of
// common date and time layouts.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var err error

	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrFormat.Wrap(err).With(
		slog.String("switch", `\@`),
		slog.String("value", value),
	)
}

// Date applies a \@ date picture to value, spelling month and day names in
// the language of tag. Text in single quotes, and any character that is not
// a picture element, is copied as is.
func Date(value, pic string, tag language.Tag) (string, error) {
	t, err := ParseDate(value)
	if err != nil {
		return value, err
	}

	loc := mondayLocale(tag)

	var sb strings.Builder

	for rest := pic; rest != ""; {
		if rest[0] == '\'' {
			lit, after, _ := strings.Cut(rest[1:], "'")
			sb.WriteString(lit)
			rest = after

			continue
		}

		matched := false

		for _, e := range datePicture {
			if strings.HasPrefix(rest, e.pic) {
				sb.WriteString(monday.Format(t, e.layout, loc))
				rest = rest[len(e.pic):]
				matched = true

				break
			}
		}

		if !matched {
			sb.WriteByte(rest[0])
			rest = rest[1:]
		}
	}

	return sb.String(), nil
}

// mondayLocale returns the supported locale closest to tag: an exact
// language and region match, then any locale of the same language, then
// US English.
func mondayLocale(tag language.Tag) monday.Locale {
	base, _ := tag.Base()
	region, _ := tag.Region()

	locales := monday.ListLocales()

	exact := monday.Locale(base.String() + "_" + region.String())
	if slices.Contains(locales, exact) {
		return exact
	}

	for _, l := range locales {
		if strings.HasPrefix(string(l), base.String()+"_") {
			return l
		}
	}

	return monday.LocaleEnUS
}
