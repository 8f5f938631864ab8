package grammar

import "github.com/ardnew/fldmerge/pkg"

var (
	// ErrLex is returned when an instruction contains an invalid lexeme.
	ErrLex = pkg.NewError("lexical error")

	// ErrParse is returned when an instruction does not match its grammar.
	ErrParse = pkg.NewError("parse error")
)
