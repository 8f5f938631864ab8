package format

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// picture is one section of a numeric picture.
type picture struct {
	prefix, suffix string
	minInt         int
	minFrac        int
	maxFrac        int
	group          bool
}

func parsePicture(s string) picture {
	var p picture

	first := strings.IndexAny(s, "0#")
	if first < 0 {
		p.prefix = unquote(s)

		return p
	}

	last := strings.LastIndexAny(s, "0#")

	p.prefix = unquote(s[:first])
	p.suffix = unquote(s[last+1:])

	body := s[first : last+1]
	intPart, fracPart, _ := strings.Cut(body, ".")

	p.group = strings.Contains(intPart, ",")
	p.minInt = strings.Count(intPart, "0")
	p.minFrac = strings.Count(fracPart, "0")
	p.maxFrac = p.minFrac + strings.Count(fracPart, "#")

	return p
}

func unquote(s string) string { return strings.ReplaceAll(s, "'", "") }

// Number applies a \# numeric picture to value, formatting digits for tag.
// A picture may hold a second section, separated by a semicolon, used for
// negative values without their sign.
func Number(value, pic string, tag language.Tag) (string, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(value), ",", "")

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return value, ErrFormat.Wrap(err).With(
			slog.String("switch", `\#`),
			slog.String("value", value),
		)
	}

	sections := strings.Split(pic, ";")

	p := parsePicture(sections[0])
	if v < 0 && len(sections) > 1 {
		p = parsePicture(sections[1])
		v = math.Abs(v)
	}

	opts := []number.Option{
		number.MinIntegerDigits(p.minInt),
		number.MinFractionDigits(p.minFrac),
		number.MaxFractionDigits(p.maxFrac),
	}

	if !p.group {
		opts = append(opts, number.NoSeparator())
	}

	digits := message.NewPrinter(tag).Sprint(number.Decimal(v, opts...))

	return p.prefix + digits + p.suffix, nil
}
