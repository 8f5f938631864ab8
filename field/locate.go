package field

import (
	"log/slog"

	"github.com/ardnew/fldmerge/tree"
)

// Start is a START marker together with the container that directly holds
// it.
type Start struct {
	Parent tree.Handle
	Marker tree.Handle
}

// LogValue implements [slog.LogValuer].
func (s Start) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("parent", int(s.Parent)),
		slog.Int("marker", int(s.Marker)),
	)
}

// Locate returns every top-level START marker below root in document order.
// A START is top-level when it is not enclosed by another field region of
// the same container. Each container is scanned independently, so markers
// inside text boxes, tables, and runs are reported with their own parent.
//
// An END with no open region is ignored, as is a SEPARATE outside any field.
func Locate(doc *tree.Document, root tree.Handle) ([]Start, error) {
	if !doc.Valid(root) {
		return nil, tree.ErrHandle.With(slog.Int("handle", int(root)))
	}

	var starts []Start

	locate(doc, root, &starts)

	return starts, nil
}

func locate(doc *tree.Document, h tree.Handle, starts *[]Start) {
	n := doc.Node(h)

	for _, c := range n.Instr {
		locate(doc, c, starts)
	}

	depth := 0

	for _, c := range n.Children {
		cn := doc.Node(c)
		if cn.Kind != tree.KindFieldChar {
			locate(doc, c, starts)

			continue
		}

		switch cn.Char {
		case tree.CharBegin:
			if depth == 0 {
				*starts = append(*starts, Start{Parent: h, Marker: c})
			}

			depth++

		case tree.CharEnd:
			if depth > 0 {
				depth--
			}
		}
	}
}
