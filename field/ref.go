package field

import (
	"log/slog"
	"strings"

	"github.com/ardnew/fldmerge/tree"
)

// TokenKind classifies an instruction token.
type TokenKind int

const (
	TokenLiteral   TokenKind = iota // literal
	TokenField                      // field
	TokenIgnorable                  // ignorable
	TokenInvalid                    // invalid
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenLiteral:
		return "literal"

	case TokenField:
		return "field"

	case TokenIgnorable:
		return "ignorable"

	default:
		return "invalid"
	}
}

// Token is one element of a field's instruction zone: literal text, a nested
// field, or a structural node that contributes nothing to the instruction.
type Token struct {
	Kind  TokenKind
	Text  string
	Field *Ref
	// Node is the tree node the token was read from.
	Node tree.Handle
}

// Ref is the canonical form of one complex field. It is a view over a
// [tree.KindField] node: the node's instruction tokens and its result zone,
// which is the slot written when the field resolves.
type Ref struct {
	doc    *tree.Document
	node   tree.Handle
	Name   string
	Tokens []Token
	// Depth is the nesting level of the field, zero for top-level fields.
	Depth   int
	written bool
}

// Handle returns the handle of the field node.
func (r *Ref) Handle() tree.Handle { return r.node }

// Lang returns the language hint of the result slot, or the empty string.
func (r *Ref) Lang() string {
	if n := r.doc.Node(r.node); n != nil {
		return n.Props.Lang
	}

	return ""
}

// Result returns the text currently displayed by the field.
func (r *Ref) Result() string { return r.doc.Text(r.node) }

// Literal returns the concatenated literal tokens of the instruction with
// nested fields omitted.
func (r *Ref) Literal() string {
	var sb strings.Builder

	for _, t := range r.Tokens {
		if t.Kind == TokenLiteral {
			sb.WriteString(t.Text)
		}
	}

	return sb.String()
}

// Nested returns the fields directly nested in the instruction.
func (r *Ref) Nested() []*Ref {
	var out []*Ref

	for _, t := range r.Tokens {
		if t.Kind == TokenField {
			out = append(out, t.Field)
		}
	}

	return out
}

// Written reports whether the result slot has been replaced.
func (r *Ref) Written() bool { return r.written }

// SetResult replaces the result zone with a single run displaying value.
// The run carries the properties of the original result run. A slot can be
// written only once.
func (r *Ref) SetResult(value string) error {
	if r.written {
		return ErrResultSet.With(
			slog.String("field", r.Name),
			slog.Int("handle", int(r.node)),
		)
	}

	n := r.doc.Node(r.node)
	if n == nil {
		return tree.ErrHandle.With(slog.Int("handle", int(r.node)))
	}

	text := r.doc.Add(tree.Node{Kind: tree.KindText, Text: value})
	run := r.doc.Add(tree.Node{
		Kind:     tree.KindRun,
		Props:    n.Props,
		Children: []tree.Handle{text},
	})

	n.Children = []tree.Handle{run}
	n.Separate = true
	r.written = true

	return nil
}

// refs builds [Ref] views over field nodes, returning the same view for the
// same node so nested tokens and document-order lists share identity.
type refs map[tree.Handle]*Ref

func (m refs) get(doc *tree.Document, h tree.Handle, depth int) *Ref {
	if r, ok := m[h]; ok {
		return r
	}

	n := doc.Node(h)
	r := &Ref{doc: doc, node: h, Name: n.Name, Depth: depth}
	m[h] = r

	for _, t := range n.Instr {
		r.Tokens = m.tokens(doc, t, depth, r.Tokens)
	}

	return r
}

func (m refs) tokens(
	doc *tree.Document,
	h tree.Handle,
	depth int,
	out []Token,
) []Token {
	n := doc.Node(h)
	if n == nil {
		return append(out, Token{Kind: TokenInvalid, Node: h})
	}

	switch n.Kind {
	case tree.KindInstr, tree.KindText:
		return append(out, Token{Kind: TokenLiteral, Text: n.Text, Node: h})

	case tree.KindField:
		return append(out, Token{Kind: TokenField, Field: m.get(doc, h, depth+1), Node: h})

	case tree.KindRun:
		for _, c := range n.Children {
			out = m.tokens(doc, c, depth, out)
		}

		return out

	case tree.KindProps, tree.KindTab, tree.KindBreak:
		return append(out, Token{Kind: TokenIgnorable, Node: h})

	default:
		return append(out, Token{Kind: TokenInvalid, Node: h})
	}
}
