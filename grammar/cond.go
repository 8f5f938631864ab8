package grammar

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeywordIf is the keyword of conditional instructions.
const KeywordIf = "IF"

// TokenType classifies a lexeme of a conditional instruction.
type TokenType int

const (
	TokenInvalid TokenType = iota // INVALID
	TokenString                   // STRING
	TokenPlain                    // PLAIN
	TokenIf                       // IF
	TokenEq                       // OP_EQ
	TokenNeq                      // OP_NEQ
	TokenEOF                      // EOF
)

// String returns the grammar name of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenString:
		return "STRING"

	case TokenPlain:
		return "PLAIN"

	case TokenIf:
		return "IF"

	case TokenEq:
		return "OP_EQ"

	case TokenNeq:
		return "OP_NEQ"

	case TokenEOF:
		return "EOF"

	default:
		return "INVALID"
	}
}

// Token is one lexeme of a conditional instruction.
type Token struct {
	Type  TokenType
	Value string
	// Offset is the byte offset of the first character of the lexeme.
	Offset int
}

// Lexer splits a conditional instruction into tokens.
//
// Whitespace separates tokens. A double-quoted value may contain whitespace;
// inside it a backslash makes the next character literal, so \" is a quote
// and \\ a backslash. Any other unquoted run of non-space characters is a
// plain value, except that "=" is the equality operator, "<>" is the
// inequality operator and "IF" is the keyword.
type Lexer struct {
	input []byte
	pos   int
}

// NewLexer returns a lexer over s.
func NewLexer(s string) *Lexer {
	return &Lexer{input: []byte(s)}
}

// Next returns the next token, or a token of type [TokenEOF] at the end of
// input.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	start := l.pos
	if l.eof() {
		return Token{Type: TokenEOF, Offset: start}, nil
	}

	switch ch := l.peek(); ch {
	case 'I':
		l.advance()

		if l.peek() == 'F' {
			l.advance()

			return Token{Type: TokenIf, Value: KeywordIf, Offset: start}, nil
		}

		if l.eof() || unicode.IsSpace(l.peek()) {
			return Token{}, ErrLex.With(
				slog.Int("offset", start),
				slog.String("near", l.near(start)),
				slog.String("expected", "IF"),
			)
		}

		l.pos = start

	case '=':
		l.advance()

		return Token{Type: TokenEq, Value: "=", Offset: start}, nil

	case '<':
		l.advance()

		if l.peek() != '>' {
			return Token{}, ErrLex.With(
				slog.Int("offset", start),
				slog.String("near", l.near(start)),
				slog.String("expected", "<>"),
			)
		}

		l.advance()

		return Token{Type: TokenNeq, Value: "<>", Offset: start}, nil

	case '"':
		return l.quoted()
	}

	return l.plain(), nil
}

// quoted reads a double-quoted value starting at the opening quote.
func (l *Lexer) quoted() (Token, error) {
	start := l.pos
	l.advance() // skip opening quote

	var sb strings.Builder

	for !l.eof() {
		ch := l.peek()
		l.advance()

		switch ch {
		case '\\':
			if l.eof() {
				return Token{}, ErrLex.With(
					slog.Int("offset", start),
					slog.String("near", l.near(start)),
					slog.String("error", "dangling escape"),
				)
			}

			sb.WriteRune(l.peek())
			l.advance()

		case '"':
			return Token{Type: TokenString, Value: sb.String(), Offset: start}, nil

		default:
			sb.WriteRune(ch)
		}
	}

	return Token{}, ErrLex.With(
		slog.Int("offset", start),
		slog.String("near", l.near(start)),
		slog.String("error", "unterminated string"),
	)
}

// plain reads a bare value up to the next whitespace.
func (l *Lexer) plain() Token {
	start := l.pos

	for !l.eof() && !unicode.IsSpace(l.peek()) {
		l.advance()
	}

	return Token{
		Type:   TokenPlain,
		Value:  string(l.input[start:l.pos]),
		Offset: start,
	}
}

func (l *Lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.pos += size
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// near returns the input from offset on, for error context.
func (l *Lexer) near(offset int) string {
	return string(l.input[min(offset, len(l.input)):])
}

// Condition is a parsed conditional instruction.
type Condition struct {
	Left, Right string
	// Negate is set for the "<>" operator.
	Negate          bool
	IfTrue, IfFalse string
}

// Eval returns IfTrue when the comparison holds and IfFalse otherwise.
// Values are compared as exact strings.
func (c Condition) Eval() string {
	if (c.Left == c.Right) != c.Negate {
		return c.IfTrue
	}

	return c.IfFalse
}

// ParseCondition parses IF <value> (= | <>) <value> <value> <value>.
// Anything after the fourth value, such as a trailing format switch, is
// ignored.
func ParseCondition(instruction string) (Condition, error) {
	p := &condParser{lex: NewLexer(strings.TrimSpace(instruction))}

	return p.parseIf()
}

// EvalCondition parses and evaluates a conditional instruction.
func EvalCondition(instruction string) (string, error) {
	c, err := ParseCondition(instruction)
	if err != nil {
		return "", err
	}

	return c.Eval(), nil
}

type condParser struct {
	lex *Lexer
}

func (p *condParser) parseIf() (Condition, error) {
	var c Condition

	tok, err := p.lex.Next()
	if err != nil {
		return c, ErrParse.Wrap(err)
	}

	if tok.Type != TokenIf {
		return c, unexpected(tok, TokenIf)
	}

	if c.Left, err = p.parseValue(); err != nil {
		return c, err
	}

	op, err := p.lex.Next()
	if err != nil {
		return c, ErrParse.Wrap(err)
	}

	switch op.Type {
	case TokenEq:
	case TokenNeq:
		c.Negate = true
	default:
		return c, unexpected(op, TokenEq, TokenNeq)
	}

	if c.Right, err = p.parseValue(); err != nil {
		return c, err
	}

	if c.IfTrue, err = p.parseValue(); err != nil {
		return c, err
	}

	if c.IfFalse, err = p.parseValue(); err != nil {
		return c, err
	}

	return c, nil
}

func (p *condParser) parseValue() (string, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return "", ErrParse.Wrap(err)
	}

	if tok.Type != TokenPlain && tok.Type != TokenString {
		return "", unexpected(tok, TokenPlain, TokenString)
	}

	return tok.Value, nil
}

func unexpected(tok Token, want ...TokenType) error {
	names := make([]string, len(want))
	for i, w := range want {
		names[i] = w.String()
	}

	return ErrParse.With(
		slog.Int("offset", tok.Offset),
		slog.String("expected", strings.Join(names, " or ")),
		slog.String("found", tok.Type.String()),
	)
}
