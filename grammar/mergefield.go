package grammar

import (
	"regexp"
	"strings"
)

// KeywordMergeField is the keyword of data-lookup instructions.
const KeywordMergeField = "MERGEFIELD"

var (
	prefixSwitch = regexp.MustCompile(`\\b\s+(?:"((?:[^"\\]|\\.)*)"|([^ ]+))`)
	suffixSwitch = regexp.MustCompile(`\\f\s+(?:"((?:[^"\\]|\\.)*)"|([^ ]+))`)
)

// DataKey returns the lookup key of a data-lookup instruction: the first word
// after the keyword. A key starting with a double quote runs to the next
// quote and may contain spaces. When that closing quote is missing, the key
// runs from after the opening quote to the first space and mismatched is
// reported so the caller can warn about it.
func DataKey(instruction string) (key string, mismatched bool) {
	rest := instruction
	if i := indexFold(instruction, KeywordMergeField); i >= 0 {
		rest = instruction[i+len(KeywordMergeField):]
	} else if f := strings.Fields(instruction); len(f) > 0 {
		rest = strings.TrimPrefix(strings.TrimSpace(instruction), f[0])
	}

	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, `"`) {
		if end := strings.Index(rest[1:], `"`); end >= 0 {
			return rest[1 : end+1], false
		}

		if sp := strings.Index(rest, " "); sp > 0 {
			return rest[1:sp], true
		}

		return rest[1:], true
	}

	if sp := strings.Index(rest, " "); sp >= 0 {
		return rest[:sp], false
	}

	return rest, false
}

// Prefix returns the literal value of the first \b switch in instruction.
func Prefix(instruction string) (string, bool) {
	return switchLiteral(prefixSwitch, instruction)
}

// Suffix returns the literal value of the first \f switch in instruction.
func Suffix(instruction string) (string, bool) {
	return switchLiteral(suffixSwitch, instruction)
}

// Decorate wraps value in the \b prefix and \f suffix of instruction.
func Decorate(value, instruction string) string {
	if p, ok := Prefix(instruction); ok {
		value = p + value
	}

	if s, ok := Suffix(instruction); ok {
		value += s
	}

	return value
}

// switchLiteral returns the quoted literal of the first match of re if it is
// non-empty, otherwise the unquoted token if it is not blank. The literal is
// returned as written, without unescaping.
func switchLiteral(re *regexp.Regexp, instruction string) (string, bool) {
	m := re.FindStringSubmatch(instruction)
	if m == nil {
		return "", false
	}

	if m[1] != "" {
		return m[1], true
	}

	if strings.TrimSpace(m[2]) != "" {
		return m[2], true
	}

	return "", false
}

// indexFold returns the byte offset of the first case-insensitive occurrence
// of the ASCII word kw in s, or -1.
func indexFold(s, kw string) int {
	for i := 0; i+len(kw) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(kw)], kw) {
			return i
		}
	}

	return -1
}
