package cmd

import "github.com/ardnew/fldmerge/pkg"

var (
	ErrDocument    = pkg.NewError("invalid document")
	ErrMergeRecord = pkg.NewError("merge record")
	ErrWriteOutput = pkg.NewError("write output")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
)
