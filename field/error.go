package field

import "github.com/ardnew/fldmerge/pkg"

// Structural errors abort a merge pass. Each is decorated with attributes
// identifying the container and marker involved.
var (
	ErrUnterminated = pkg.NewError("unterminated field")
	ErrParentShape  = pkg.NewError("marker in unsupported container")
	ErrDetached     = pkg.NewError("marker not found in its container")
	ErrInvalidToken = pkg.NewError("invalid token in field instruction")
	ErrResultSet    = pkg.NewError("field result already written")
)
