package tree

// Spec describes a detached subtree to be inserted into a [Document].
// It is the literal form used by decoders and tests to build content.
type Spec struct {
	Node Node
	Kids []Spec
}

// Build returns a new document whose root is built from s.
func Build(s Spec) *Document {
	d := &Document{}
	d.root = d.Insert(s)

	return d
}

// Insert adds the subtree described by s to the arena and returns the handle
// of its root. The subtree is detached until linked into a container.
func (d *Document) Insert(s Spec) Handle {
	n := s.Node
	n.Children = nil

	h := d.Add(n)
	for _, k := range s.Kids {
		c := d.Insert(k)
		d.nodes[h].Children = append(d.nodes[h].Children, c)
	}

	return h
}

// Body returns a body spec.
func Body(kids ...Spec) Spec { return Spec{Node: Node{Kind: KindBody}, Kids: kids} }

// P returns a paragraph spec.
func P(kids ...Spec) Spec { return Spec{Node: Node{Kind: KindParagraph}, Kids: kids} }

// R returns a run spec without properties.
func R(kids ...Spec) Spec { return Spec{Node: Node{Kind: KindRun}, Kids: kids} }

// RLang returns a run spec tagged with a language.
func RLang(lang string, kids ...Spec) Spec {
	return Spec{Node: Node{Kind: KindRun, Props: Props{Lang: lang}}, Kids: kids}
}

// T returns a display text spec.
func T(s string) Spec { return Spec{Node: Node{Kind: KindText, Text: s}} }

// I returns an instruction text spec.
func I(s string) Spec { return Spec{Node: Node{Kind: KindInstr, Text: s}} }

// Begin returns a START marker spec.
func Begin() Spec { return Spec{Node: Node{Kind: KindFieldChar, Char: CharBegin}} }

// Sep returns a SEPARATE marker spec.
func Sep() Spec { return Spec{Node: Node{Kind: KindFieldChar, Char: CharSeparate}} }

// End returns an END marker spec.
func End() Spec { return Spec{Node: Node{Kind: KindFieldChar, Char: CharEnd}} }

// Tab returns a tab spec.
func Tab() Spec { return Spec{Node: Node{Kind: KindTab}} }

// Br returns a break spec.
func Br() Spec { return Spec{Node: Node{Kind: KindBreak}} }

// TextBox returns a text box spec wrapping its content holder.
func TextBox(kids ...Spec) Spec {
	return Spec{
		Node: Node{Kind: KindTextBox},
		Kids: []Spec{{Node: Node{Kind: KindTextBoxContent}, Kids: kids}},
	}
}

// Table returns a table spec.
func Table(rows ...Spec) Spec { return Spec{Node: Node{Kind: KindTable}, Kids: rows} }

// Row returns a table row spec.
func Row(cells ...Spec) Spec { return Spec{Node: Node{Kind: KindRow}, Kids: cells} }

// Cell returns a table cell spec.
func Cell(kids ...Spec) Spec { return Spec{Node: Node{Kind: KindCell}, Kids: kids} }

// Simple returns the specs of one complete field in its common marker shape:
// each marker and the instruction in separate runs, and the displayed result
// in a run tagged with lang. An empty result omits the SEPARATE marker.
func Simple(instr, result, lang string) []Spec {
	specs := []Spec{R(Begin()), R(I(instr))}
	if result != "" {
		specs = append(specs, R(Sep()), RLang(lang, T(result)))
	}

	return append(specs, R(End()))
}
