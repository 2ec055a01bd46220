package collection

import "errors"

// ErrIndexRequired is returned when a nil index is given to NewManager.
var ErrIndexRequired = errors.New("vector index required")
