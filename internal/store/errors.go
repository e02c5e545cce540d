package store

import "errors"

var (
	ErrInvalidImport = errors.New("import is not valid JSON")
)
