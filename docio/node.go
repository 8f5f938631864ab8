package docio

import (
	"log/slog"
	"strconv"

	"github.com/ardnew/fldmerge/tree"
)

// fileDoc is the serialized form of a [tree.Package]. A package holding only
// a main part named "document" is written with Body alone.
type fileDoc struct {
	Body  *nodeDoc  `json:"body,omitempty"  yaml:"body,omitempty"`
	Parts []partDoc `json:"parts,omitempty" yaml:"parts,omitempty"`
}

type partDoc struct {
	Name string   `json:"name"           yaml:"name"`
	Kind string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Body *nodeDoc `json:"body"           yaml:"body"`
}

type nodeDoc struct {
	Kind     string     `json:"kind,omitempty"     yaml:"kind,omitempty"`
	Char     string     `json:"char,omitempty"     yaml:"char,omitempty"`
	Text     string     `json:"text,omitempty"     yaml:"text,omitempty"`
	Lang     string     `json:"lang,omitempty"     yaml:"lang,omitempty"`
	Style    string     `json:"style,omitempty"    yaml:"style,omitempty"`
	Children []*nodeDoc `json:"children,omitempty" yaml:"children,omitempty"`
}

const mainPartName = "document"

func (f *fileDoc) pkg() (*tree.Package, error) {
	p := &tree.Package{}

	if f.Body != nil {
		doc, err := f.Body.document("body")
		if err != nil {
			return nil, err
		}

		p.Parts = append(p.Parts, &tree.Part{Name: mainPartName, Kind: tree.PartMain, Doc: doc})
	}

	for i, part := range f.Parts {
		path := "parts/" + strconv.Itoa(i)
		if part.Body == nil {
			return nil, ErrNode.With(slog.String("path", path), slog.String("reason", "part has no body"))
		}

		doc, err := part.Body.document(path + "/body")
		if err != nil {
			return nil, err
		}

		name := part.Name
		if name == "" {
			name = path
		}

		p.Parts = append(p.Parts, &tree.Part{Name: name, Kind: tree.ParsePartKind(part.Kind), Doc: doc})
	}

	if len(p.Parts) == 0 {
		return nil, ErrNode.With(slog.String("reason", "document has neither body nor parts"))
	}

	return p, nil
}

func (n *nodeDoc) document(path string) (*tree.Document, error) {
	if n.Kind == "" && n.Char == "" && n.Text == "" {
		n.Kind = tree.KindBody.String()
	}

	spec, err := n.spec(path)
	if err != nil {
		return nil, err
	}

	return tree.Build(spec), nil
}

func (n *nodeDoc) kind() (tree.Kind, bool) {
	switch {
	case n.Kind != "":
		return tree.ParseKind(n.Kind)

	case n.Char != "":
		return tree.KindFieldChar, true

	case n.Text != "":
		return tree.KindText, true

	default:
		return 0, false
	}
}

// spec converts n and its descendants into a tree literal.
func (n *nodeDoc) spec(path string) (tree.Spec, error) {
	if n == nil {
		return tree.Spec{}, ErrNode.With(slog.String("path", path), slog.String("reason", "empty node"))
	}

	fail := func(reason string) (tree.Spec, error) {
		return tree.Spec{}, ErrNode.With(
			slog.String("path", path),
			slog.String("kind", n.Kind),
			slog.String("reason", reason),
		)
	}

	kind, ok := n.kind()
	if !ok {
		return fail("unknown kind")
	}

	node := tree.Node{Kind: kind}

	switch kind {
	case tree.KindField:
		return fail("fields must be stored as markers")

	case tree.KindFieldChar:
		c, ok := tree.ParseChar(n.Char)
		if !ok {
			return fail("unknown marker " + strconv.Quote(n.Char))
		}

		node.Char = c

	case tree.KindText, tree.KindInstr:
		node.Text = n.Text

	case tree.KindRun:
		node.Props = tree.Props{Lang: n.Lang, Style: n.Style}
	}

	if kind.Shape() == tree.ShapeNone && kind != tree.KindTextBox && len(n.Children) > 0 {
		return fail("leaf node has children")
	}

	s := tree.Spec{Node: node, Kids: make([]tree.Spec, 0, len(n.Children))}

	for i, c := range n.Children {
		k, err := c.spec(path + "/" + strconv.Itoa(i))
		if err != nil {
			return tree.Spec{}, err
		}

		s.Kids = append(s.Kids, k)
	}

	return s, nil
}

// fileOf returns the serialized form of p with every field lowered to
// markers. The parts of p are not modified.
func fileOf(p *tree.Package) (*fileDoc, error) {
	var f fileDoc

	for _, part := range p.Parts {
		if part == nil || part.Doc == nil {
			continue
		}

		sub, err := part.Doc.Subtree(part.Doc.Root())
		if err != nil {
			return nil, err
		}

		if err := sub.Lower(sub.Root()); err != nil {
			return nil, err
		}

		f.Parts = append(f.Parts, partDoc{
			Name: part.Name,
			Kind: part.Kind.String(),
			Body: nodeOf(sub, sub.Root()),
		})
	}

	if len(f.Parts) == 1 && f.Parts[0].Name == mainPartName && f.Parts[0].Kind == tree.PartMain.String() {
		f.Body, f.Parts = f.Parts[0].Body, nil
	}

	return &f, nil
}

func nodeOf(doc *tree.Document, h tree.Handle) *nodeDoc {
	n := doc.Node(h)
	out := &nodeDoc{Kind: n.Kind.String()}

	switch n.Kind {
	case tree.KindFieldChar:
		out.Kind, out.Char = "", n.Char.String()

	case tree.KindText, tree.KindInstr:
		out.Text = n.Text

	case tree.KindRun:
		out.Lang, out.Style = n.Props.Lang, n.Props.Style
	}

	for _, c := range n.Children {
		out.Children = append(out.Children, nodeOf(doc, c))
	}

	return out
}
