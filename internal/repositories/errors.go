package repositories

import "errors"

// ErrNotFound is wrapped by every repository lookup that finds no row.
var ErrNotFound = errors.New("record not found")
