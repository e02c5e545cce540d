package absence

import "errors"

var (
	ErrInvalidDate = errors.New("absence date must be YYYY-MM-DD")
)
