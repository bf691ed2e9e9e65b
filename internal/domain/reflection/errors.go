package reflection

import "errors"

// ErrInvalidInput indicates an empty reflection.
var ErrInvalidInput = errors.New("invalid reflection input")
