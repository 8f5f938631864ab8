package field

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/ardnew/fldmerge/log"
	"github.com/ardnew/fldmerge/tree"
)

// Canonicalize collapses the field region opened by s into one
// [tree.KindField] node and returns a view over it.
//
// Fields nested in the region are collapsed first, innermost outward, so no
// marker survives inside the new node. The region's instruction zone becomes
// the node's instruction tokens and its result zone, if any, the node's
// children. The node replaces the markers and everything between them in the
// container; the START position is looked up again right before the splice.
func Canonicalize(doc *tree.Document, s Start) (*Ref, error) {
	h, err := canonicalize(doc, s.Parent, s.Marker)
	if err != nil {
		return nil, err
	}

	return refs{}.get(doc, h, 0), nil
}

func canonicalize(doc *tree.Document, parent, marker tree.Handle) (tree.Handle, error) {
	if shape := doc.ShapeOf(parent); shape == tree.ShapeNone {
		return tree.Nil, ErrParentShape.With(
			slog.Int("parent", int(parent)),
			slog.String("kind", doc.Kind(parent).String()),
			slog.Int("marker", int(marker)),
		)
	}

	begin := doc.IndexOf(parent, marker)
	if begin < 0 {
		return tree.Nil, ErrDetached.With(
			slog.Int("parent", int(parent)),
			slog.Int("marker", int(marker)),
		)
	}

	sep, end := -1, -1

scan:
	for i := begin + 1; ; i++ {
		c, err := doc.Child(parent, i)
		if err != nil {
			return tree.Nil, ErrUnterminated.With(
				slog.Int("parent", int(parent)),
				slog.Int("marker", int(marker)),
				slog.Int("index", begin),
			)
		}

		n := doc.Node(c)
		if n.Kind != tree.KindFieldChar {
			continue
		}

		switch n.Char {
		case tree.CharBegin:
			// The nested region collapses to one node at position i, which
			// the next iteration steps over.
			if _, err := canonicalize(doc, parent, c); err != nil {
				return tree.Nil, err
			}

		case tree.CharSeparate:
			if sep < 0 {
				sep = i
			}

		case tree.CharEnd:
			end = i

			break scan
		}
	}

	kids := doc.Children(parent)

	instr := kids[begin+1 : end]

	var result []tree.Handle
	if sep >= 0 {
		instr = kids[begin+1 : sep]
		result = kids[sep+1 : end]
	}

	f := doc.Add(tree.Node{
		Kind:     tree.KindField,
		Name:     fieldName(doc, instr),
		Props:    resultProps(doc, result),
		Instr:    instr,
		Children: result,
		Separate: sep >= 0,
	})

	begin = doc.IndexOf(parent, marker)
	if err := doc.Splice(parent, begin, end+1, f); err != nil {
		return tree.Nil, err
	}

	return f, nil
}

// fieldName returns the first word of the literal text that opens an
// instruction zone, upper-cased. Literal fragments are joined up to the first
// nested field.
func fieldName(doc *tree.Document, zone []tree.Handle) string {
	var sb strings.Builder

	for _, t := range (refs{}).tokensOf(doc, zone) {
		if t.Kind == TokenField {
			break
		}

		if t.Kind == TokenLiteral {
			sb.WriteString(t.Text)
		}
	}

	if w := strings.FieldsFunc(sb.String(), unicode.IsSpace); len(w) > 0 {
		return strings.ToUpper(w[0])
	}

	return ""
}

// resultProps returns the properties of the first run of a result zone.
func resultProps(doc *tree.Document, zone []tree.Handle) tree.Props {
	var (
		props tree.Props
		found bool
	)

	for _, h := range zone {
		_ = doc.Walk(h, func(_, node tree.Handle) error {
			if found {
				return tree.SkipChildren
			}

			if doc.Kind(node) == tree.KindRun {
				props = doc.Node(node).Props
				found = true

				return tree.SkipChildren
			}

			return nil
		})

		if found {
			break
		}
	}

	return props
}

func (m refs) tokensOf(doc *tree.Document, zone []tree.Handle) []Token {
	var out []Token

	for _, h := range zone {
		out = m.tokens(doc, h, 0, out)
	}

	return out
}

// Canonicalizer drives hoisting, locating, and canonicalization over a
// subtree.
type Canonicalizer struct {
	logger log.Logger
}

// NewCanonicalizer returns a canonicalizer that logs to logger.
func NewCanonicalizer(logger log.Logger) *Canonicalizer {
	return &Canonicalizer{logger: logger}
}

// Run canonicalizes every field below root. It returns a view of every field
// in document order, each field before the fields nested in it, and the
// number of top-level START markers located.
func (c *Canonicalizer) Run(
	ctx context.Context,
	doc *tree.Document,
	root tree.Handle,
) ([]*Ref, int, error) {
	if err := Hoist(doc, root); err != nil {
		return nil, 0, err
	}

	starts, err := Locate(doc, root)
	if err != nil {
		return nil, 0, err
	}

	c.logger.DebugContext(ctx, "located fields", slog.Int("count", len(starts)))

	for _, s := range starts {
		if err := ctx.Err(); err != nil {
			return nil, len(starts), err
		}

		if _, err := canonicalize(doc, s.Parent, s.Marker); err != nil {
			return nil, len(starts), err
		}
	}

	var (
		all   []*Ref
		cache = refs{}
	)

	collect(doc, root, 0, cache, &all)

	c.logger.TraceContext(ctx, "canonicalized fields", slog.Int("count", len(all)))

	return all, len(starts), nil
}

func collect(doc *tree.Document, h tree.Handle, depth int, cache refs, all *[]*Ref) {
	n := doc.Node(h)
	if n.Kind == tree.KindField {
		*all = append(*all, cache.get(doc, h, depth))
		depth++
	}

	for _, c := range n.Instr {
		collect(doc, c, depth, cache, all)
	}

	for _, c := range n.Children {
		collect(doc, c, depth, cache, all)
	}
}
