package merge

import "errors"

// Fatal errors. Anything else that goes wrong is reported per file.
var (
	ErrInvalidDirectory = errors.New("not a valid directory")
	ErrOutputOpen       = errors.New("cannot open output file")
	ErrOutputWrite      = errors.New("cannot write output file")
)
