package field

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// DataFieldName is a normalized lookup key into merge data. Two names that
// differ only in letter case or in the amount of whitespace between and
// around words are equal.
type DataFieldName struct {
	key string
}

// MakeDataFieldName returns the normalized key of name.
// A [cases.Caser] is stateful, so each call folds with its own.
func MakeDataFieldName(name string) DataFieldName {
	return DataFieldName{key: strings.Join(strings.Fields(cases.Fold().String(name)), " ")}
}

// String returns the normalized key.
func (n DataFieldName) String() string { return n.key }

// Data maps normalized field names to replacement values.
type Data map[DataFieldName]string

// MakeData returns data keyed by the normalized form of each key of m.
// When several keys normalize to the same name, the last one in sorted key
// order wins.
func MakeData(m map[string]string) Data {
	d := make(Data, len(m))

	for _, k := range slices.Sorted(maps.Keys(m)) {
		d[MakeDataFieldName(k)] = m[k]
	}

	return d
}

// Lookup returns the value stored under the normalized form of name.
func (d Data) Lookup(name string) (string, bool) {
	v, ok := d[MakeDataFieldName(name)]

	return v, ok
}

// Names returns the normalized names in d, sorted.
func (d Data) Names() []string {
	names := make([]string, 0, len(d))
	for k := range d {
		names = append(names, k.key)
	}

	slices.Sort(names)

	return names
}
