package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist. Handlers
// use it to distinguish a missing resource from a store failure.
var ErrNotFound = errors.New("not found")
