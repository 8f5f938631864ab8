package tree

import (
	"log/slog"
	"strings"
)

// Subtree returns a deep copy of h and its descendants in a new arena whose
// root is the copy of h. Detached nodes of d are not copied.
func (d *Document) Subtree(h Handle) (*Document, error) {
	if !d.Valid(h) {
		return nil, ErrHandle.With(slog.Int("handle", int(h)))
	}

	sub := &Document{}
	sub.root = sub.copyFrom(d, h)

	return sub, nil
}

// Graft replaces the children of h with a copy of the children of sub's root.
// Nothing in d changes unless sub is fully copied.
func (d *Document) Graft(h Handle, sub *Document) error {
	n := d.Node(h)
	if n == nil {
		return ErrHandle.With(slog.Int("handle", int(h)))
	}

	src := sub.Node(sub.root)
	if src == nil {
		return ErrHandle.With(slog.Int("handle", int(sub.root)))
	}

	kids := make([]Handle, 0, len(src.Children))
	for _, c := range src.Children {
		kids = append(kids, d.copyFrom(sub, c))
	}

	n.Children = kids

	return nil
}

func (d *Document) copyFrom(src *Document, h Handle) Handle {
	n := *src.nodes[h]
	n.Children = nil
	n.Instr = nil

	dst := d.Add(n)

	for _, c := range src.nodes[h].Instr {
		d.nodes[dst].Instr = append(d.nodes[dst].Instr, d.copyFrom(src, c))
	}

	for _, c := range src.nodes[h].Children {
		d.nodes[dst].Children = append(d.nodes[dst].Children, d.copyFrom(src, c))
	}

	return dst
}

// Text returns the displayed text of h. Fields display their result zone;
// instruction text and markers display nothing. Paragraph and row boundaries
// are rendered as newlines, tabs and breaks as their control characters.
func (d *Document) Text(h Handle) string {
	var sb strings.Builder

	d.text(&sb, h)

	return sb.String()
}

func (d *Document) text(sb *strings.Builder, h Handle) {
	n := d.Node(h)
	if n == nil {
		return
	}

	switch n.Kind {
	case KindText:
		sb.WriteString(n.Text)

		return

	case KindTab:
		sb.WriteByte('\t')

		return

	case KindBreak:
		sb.WriteByte('\n')

		return

	case KindInstr, KindFieldChar, KindProps:
		return
	}

	for _, c := range n.Children {
		d.text(sb, c)
	}

	if n.Kind == KindParagraph || n.Kind == KindRow {
		sb.WriteByte('\n')
	}
}

// Lower rewrites every field below h back into marker form: a START marker,
// the instruction tokens, a SEPARATE marker when the field has a result, the
// result zone, and an END marker. Markers are placed in their own runs when
// the field sits in a content list, and directly otherwise.
func (d *Document) Lower(h Handle) error {
	n := d.Node(h)
	if n == nil {
		return ErrHandle.With(slog.Int("handle", int(h)))
	}

	lowered := make([]Handle, 0, len(n.Children))

	for _, c := range n.Children {
		if err := d.Lower(c); err != nil {
			return err
		}

		f := d.nodes[c]
		if f.Kind != KindField {
			lowered = append(lowered, c)

			continue
		}

		marker := func(ch Char) Handle {
			m := d.Add(Node{Kind: KindFieldChar, Char: ch})
			if n.Kind.Shape() == ShapePlainList {
				return m
			}

			return d.Add(Node{Kind: KindRun, Props: f.Props, Children: []Handle{m}})
		}

		lowered = append(lowered, marker(CharBegin))
		lowered = append(lowered, d.expandFields(f.Instr)...)

		if f.Separate || len(f.Children) > 0 {
			lowered = append(lowered, marker(CharSeparate))
			lowered = append(lowered, f.Children...)
		}

		lowered = append(lowered, marker(CharEnd))
	}

	n.Children = lowered

	return nil
}

// expandFields lowers field tokens of an instruction zone in place.
func (d *Document) expandFields(tokens []Handle) []Handle {
	holder := d.Add(Node{Kind: KindParagraph, Children: tokens})
	_ = d.Lower(holder)

	return d.nodes[holder].Children
}
