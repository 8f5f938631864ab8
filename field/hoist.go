package field

import (
	"log/slog"

	"github.com/ardnew/fldmerge/tree"
)

// Hoist linearizes field markers below root. Every run that holds a marker
// or instruction text is split so that each marker becomes a direct child of
// the run's container and each instruction fragment sits in a run of its
// own. The remaining content of a split run is kept, in order, in runs that
// copy the original run's properties.
//
// Runs are only split inside content lists and text box content holders;
// markers directly inside a run that is itself the root stay where they are.
func Hoist(doc *tree.Document, root tree.Handle) error {
	n := doc.Node(root)
	if n == nil {
		return tree.ErrHandle.With(slog.Int("handle", int(root)))
	}

	for _, c := range n.Children {
		if err := Hoist(doc, c); err != nil {
			return err
		}
	}

	switch n.Kind.Shape() {
	case tree.ShapeContentList, tree.ShapeTextBoxContent:
	default:
		return nil
	}

	out := make([]tree.Handle, 0, len(n.Children))

	for _, c := range n.Children {
		if !needsSplit(doc, c) {
			out = append(out, c)

			continue
		}

		out = append(out, splitRun(doc, c)...)
	}

	n.Children = out

	return nil
}

func needsSplit(doc *tree.Document, h tree.Handle) bool {
	n := doc.Node(h)
	if n.Kind != tree.KindRun {
		return false
	}

	for _, c := range n.Children {
		switch doc.Kind(c) {
		case tree.KindFieldChar:
			return true

		case tree.KindInstr:
			if len(n.Children) > 1 {
				return true
			}
		}
	}

	return false
}

func splitRun(doc *tree.Document, h tree.Handle) []tree.Handle {
	run := doc.Node(h)

	var (
		out   []tree.Handle
		piece []tree.Handle
	)

	flush := func() {
		if len(piece) == 0 || onlyProps(doc, piece) {
			piece = nil

			return
		}

		out = append(out, doc.Add(tree.Node{
			Kind:     tree.KindRun,
			Props:    run.Props,
			Children: piece,
		}))
		piece = nil
	}

	for _, c := range run.Children {
		switch doc.Kind(c) {
		case tree.KindFieldChar:
			flush()

			out = append(out, c)

		case tree.KindInstr:
			flush()

			piece = []tree.Handle{c}

			flush()

		default:
			piece = append(piece, c)
		}
	}

	flush()

	return out
}

func onlyProps(doc *tree.Document, hs []tree.Handle) bool {
	for _, h := range hs {
		if doc.Kind(h) != tree.KindProps {
			return false
		}
	}

	return true
}
