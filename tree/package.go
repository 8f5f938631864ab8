package tree

import "strings"

// PartKind classifies a part of a multi-part document.
type PartKind int

const (
	PartMain   PartKind = iota // main
	PartHeader                 // header
	PartFooter                 // footer
	PartOther                  // other
)

// String returns the part kind name.
func (k PartKind) String() string {
	switch k {
	case PartMain:
		return "main"

	case PartHeader:
		return "header"

	case PartFooter:
		return "footer"

	default:
		return "other"
	}
}

// ParsePartKind returns the part kind with the given name. Unknown names map
// to [PartOther].
func ParsePartKind(s string) PartKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "main", "document", "body", "":
		return PartMain

	case "header":
		return PartHeader

	case "footer":
		return PartFooter

	default:
		return PartOther
	}
}

// Part is one independently mergeable content tree of a [Package].
type Part struct {
	Name string
	Kind PartKind
	Doc  *Document
}

// Package is a multi-part document: one main part plus any number of
// auxiliary parts such as headers and footers. Every part owns its arena.
type Package struct {
	Parts []*Part
}

// Main returns the first main part, or nil.
func (p *Package) Main() *Part {
	for _, part := range p.Parts {
		if part.Kind == PartMain {
			return part
		}
	}

	return nil
}
