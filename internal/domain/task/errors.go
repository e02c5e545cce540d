package task

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrUnsupportedImport  = errors.New("only a JSON array of tasks can be imported")
	ErrWorkshopNotFound   = errors.New("workshop not found")
	ErrMissingImportSheet = errors.New("workbook has no task sheet")
)
