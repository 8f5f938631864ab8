package tree

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/ardnew/fldmerge/pkg"
)

var (
	ErrHandle = pkg.NewError("invalid node handle")
	ErrIndex  = pkg.NewError("child index out of range")
)

// Handle addresses a node in a [Document] arena.
type Handle int

// Nil is the handle of no node.
const Nil Handle = -1

// Props holds run properties relevant to value formatting.
type Props struct {
	Lang  string
	Style string
}

// Node is one element of the content tree.
//
// Children holds the ordered content of container nodes. For a [KindField]
// node Children is the result zone and Instr holds the instruction tokens.
type Node struct {
	Kind     Kind
	Char     Char
	Text     string
	Name     string
	Props    Props
	Children []Handle
	Instr    []Handle
	// Separate records that the field had a SEPARATE marker.
	Separate bool
}

// Document is an arena of content nodes. Nodes refer to their children by
// handle and never to their parent; the parent of a node is known only to
// the traversal that reached it.
//
// A Document is not safe for concurrent mutation.
type Document struct {
	nodes []*Node
	root  Handle
}

// New returns a document whose root is an empty node of the given kind.
func New(root Kind) *Document {
	d := &Document{}
	d.root = d.Add(Node{Kind: root})

	return d
}

// Root returns the handle of the document root.
func (d *Document) Root() Handle { return d.root }

// Len returns the number of nodes in the arena, including detached ones.
func (d *Document) Len() int { return len(d.nodes) }

// Add stores a detached node and returns its handle.
func (d *Document) Add(n Node) Handle {
	n.Children = slices.Clone(n.Children)
	n.Instr = slices.Clone(n.Instr)
	d.nodes = append(d.nodes, &n)

	return Handle(len(d.nodes) - 1)
}

// Append stores n and appends it to the children of parent.
func (d *Document) Append(parent Handle, n Node) (Handle, error) {
	p := d.Node(parent)
	if p == nil {
		return Nil, ErrHandle.With(slog.Int("handle", int(parent)))
	}

	h := d.Add(n)
	p.Children = append(p.Children, h)

	return h, nil
}

// Valid reports whether h addresses a node in d.
func (d *Document) Valid(h Handle) bool {
	return h >= 0 && int(h) < len(d.nodes)
}

// Node returns the node addressed by h, or nil if h is invalid.
// The returned pointer stays valid as the arena grows.
func (d *Document) Node(h Handle) *Node {
	if !d.Valid(h) {
		return nil
	}

	return d.nodes[h]
}

// Kind returns the kind of node h, or -1 if h is invalid.
func (d *Document) Kind(h Handle) Kind {
	if n := d.Node(h); n != nil {
		return n.Kind
	}

	return -1
}

// ShapeOf returns the container shape of node h.
func (d *Document) ShapeOf(h Handle) Shape {
	n := d.Node(h)
	if n == nil {
		return ShapeNone
	}

	return n.Kind.Shape()
}

// Children returns a copy of the ordered children of h.
func (d *Document) Children(h Handle) []Handle {
	if n := d.Node(h); n != nil {
		return slices.Clone(n.Children)
	}

	return nil
}

// All returns an iterator over the index and handle of each child of h.
func (d *Document) All(h Handle) iter.Seq2[int, Handle] {
	return func(yield func(int, Handle) bool) {
		n := d.Node(h)
		if n == nil {
			return
		}

		for i, c := range n.Children {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Child returns the i'th child of h.
func (d *Document) Child(h Handle, i int) (Handle, error) {
	n := d.Node(h)
	if n == nil {
		return Nil, ErrHandle.With(slog.Int("handle", int(h)))
	}

	if i < 0 || i >= len(n.Children) {
		return Nil, ErrIndex.With(
			slog.Int("handle", int(h)),
			slog.Int("index", i),
			slog.Int("len", len(n.Children)),
		)
	}

	return n.Children[i], nil
}

// SetChild replaces the i'th child of h with c.
func (d *Document) SetChild(h Handle, i int, c Handle) error {
	return d.Splice(h, i, i+1, c)
}

// Splice replaces the children of h in the half-open range [from, to) with
// repl, preserving the order of all other children.
func (d *Document) Splice(h Handle, from, to int, repl ...Handle) error {
	n := d.Node(h)
	if n == nil {
		return ErrHandle.With(slog.Int("handle", int(h)))
	}

	if from < 0 || to > len(n.Children) || from > to {
		return ErrIndex.With(
			slog.Int("handle", int(h)),
			slog.Int("from", from),
			slog.Int("to", to),
			slog.Int("len", len(n.Children)),
		)
	}

	for _, r := range repl {
		if !d.Valid(r) {
			return ErrHandle.With(slog.Int("handle", int(r)))
		}
	}

	n.Children = slices.Replace(n.Children, from, to, repl...)

	return nil
}

// IndexOf returns the position of c among the children of h, or -1.
func (d *Document) IndexOf(h, c Handle) int {
	if n := d.Node(h); n != nil {
		return slices.Index(n.Children, c)
	}

	return -1
}

// Walk visits h and its descendants in document order, calling fn with each
// node and the handle of the container it was reached from (Nil for h).
// The instruction tokens of a field are visited before its result zone.
//
// Returning [SkipChildren] from fn skips the descendants of that node; any
// other non-nil error stops the walk and is returned.
func (d *Document) Walk(h Handle, fn func(parent, node Handle) error) error {
	return d.walk(Nil, h, fn)
}

// SkipChildren is a sentinel returned by a [Document.Walk] callback.
var SkipChildren = pkg.NewError("skip children")

func (d *Document) walk(
	parent, h Handle,
	fn func(parent, node Handle) error,
) error {
	n := d.Node(h)
	if n == nil {
		return ErrHandle.With(slog.Int("handle", int(h)))
	}

	err := fn(parent, h)
	if err == SkipChildren { //nolint:errorlint
		return nil
	}

	if err != nil {
		return err
	}

	for _, c := range slices.Concat(n.Instr, n.Children) {
		if err := d.walk(h, c, fn); err != nil {
			return err
		}
	}

	return nil
}
