package merge

import (
	"strings"

	"github.com/ardnew/fldmerge/tree"
)

// codeSpecs returns the marker form of a field code written as text.
func codeSpecs(code string) []tree.Spec {
	specs := []tree.Spec{tree.R(tree.Begin())}

	var (
		sb      strings.Builder
		quoted  bool
		escaped bool
	)

	flush := func() {
		if sb.Len() > 0 {
			specs = append(specs, tree.R(tree.I(sb.String())))
			sb.Reset()
		}
	}

	for _, r := range code {
		switch {
		case escaped:
			escaped = false

		case quoted && r == '\\':
			escaped = true

		case r == '"':
			quoted = !quoted

		case !quoted && r == '{':
			flush()
			specs = append(specs, tree.R(tree.Begin()))

			continue

		case !quoted && r == '}':
			flush()
			specs = append(specs, tree.R(tree.End()))

			continue
		}

		sb.WriteRune(r)
	}

	flush()

	return append(specs, tree.R(tree.End()))
}
