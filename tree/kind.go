package tree

import "strings"

// Kind identifies the type of a content node.
type Kind int

const (
	KindBody           Kind = iota // body
	KindParagraph                  // p
	KindRun                        // r
	KindText                       // t
	KindInstr                      // instr
	KindFieldChar                  // fldChar
	KindTab                        // tab
	KindBreak                      // br
	KindProps                      // props
	KindTextBox                    // txbx
	KindTextBoxContent             // txbxContent
	KindTable                      // tbl
	KindRow                        // tr
	KindCell                       // tc
	KindField                      // field
)

var kindNames = [...]string{
	KindBody:           "body",
	KindParagraph:      "p",
	KindRun:            "r",
	KindText:           "t",
	KindInstr:          "instr",
	KindFieldChar:      "fldChar",
	KindTab:            "tab",
	KindBreak:          "br",
	KindProps:          "props",
	KindTextBox:        "txbx",
	KindTextBoxContent: "txbxContent",
	KindTable:          "tbl",
	KindRow:            "tr",
	KindCell:           "tc",
	KindField:          "field",
}

// String returns the element name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}

	return kindNames[k]
}

// ParseKind returns the kind with the given element name, compared
// case-insensitively.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(k), true
		}
	}

	return 0, false
}

// Char is the marker type of a [KindFieldChar] node.
type Char int

const (
	CharNone     Char = iota // none
	CharBegin                // begin
	CharSeparate             // separate
	CharEnd                  // end
)

// String returns the marker name.
func (c Char) String() string {
	switch c {
	case CharBegin:
		return "begin"

	case CharSeparate:
		return "separate"

	case CharEnd:
		return "end"

	default:
		return "none"
	}
}

// ParseChar returns the marker type with the given name.
func ParseChar(s string) (Char, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "begin", "start":
		return CharBegin, true

	case "separate":
		return CharSeparate, true

	case "end":
		return CharEnd, true

	default:
		return CharNone, false
	}
}

// Shape classifies a node by how it holds an ordered list of content items.
// The set of shapes is closed; markers may only be canonicalized inside a
// node whose shape is not [ShapeNone].
type Shape int

const (
	ShapeNone           Shape = iota // none
	ShapeContentList                 // content list
	ShapePlainList                   // plain list
	ShapeTextBoxContent              // text box content
)

// String returns a readable name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeContentList:
		return "content list"

	case ShapePlainList:
		return "plain list"

	case ShapeTextBoxContent:
		return "text box content"

	default:
		return "none"
	}
}

// Shape returns the container shape of nodes of kind k.
func (k Kind) Shape() Shape {
	switch k {
	case KindBody, KindParagraph, KindTable, KindRow, KindCell:
		return ShapeContentList

	case KindRun:
		return ShapePlainList

	case KindTextBoxContent:
		return ShapeTextBoxContent

	default:
		return ShapeNone
	}
}
