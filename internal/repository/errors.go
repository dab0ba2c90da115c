package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist or belongs to
// a different organization.
var ErrNotFound = errors.New("not found")
