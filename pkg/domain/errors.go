package domain

import "errors"

// ErrEmptyID is returned when an operation needs an identifier and got an empty one.
var ErrEmptyID = errors.New("empty identifier")
