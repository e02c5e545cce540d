package leave

import "errors"

var (
	ErrEmployeeNotFound = errors.New("leave matrix employee not found")
	ErrInvalidDate      = errors.New("leave date must be YYYY-MM-DD")
	ErrInvalidYear      = errors.New("invalid leave year")
)
