package domain

import "errors"

var (
	// ErrNotFound is returned when something is not found. A record owned
	// by another user is reported the same way, so callers cannot tell
	// foreign records apart from missing ones.
	ErrNotFound = errors.New("item not found")
	ErrConflict = errors.New("item already exists")
	// ErrMissingField is returned when a required field is empty.
	ErrMissingField = errors.New("required field is missing")
)
