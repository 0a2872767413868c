package repository

import "errors"

// ErrForbidden is returned when the caller acts on a resource owned by
// someone else. Handlers translate it into a permission flash or 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write collides with an existing row,
// such as a second opening-hours entry for the same weekday.
var ErrConflict = errors.New("conflict")
