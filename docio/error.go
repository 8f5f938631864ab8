package docio

import "github.com/ardnew/fldmerge/pkg"

var (
	// ErrNode is returned for a document node that cannot be decoded.
	ErrNode = pkg.NewError("invalid document node")

	// ErrData is returned for merge data that is not a mapping or a sequence
	// of mappings.
	ErrData = pkg.NewError("invalid merge data")
)
