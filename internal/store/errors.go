package store

import "errors"

var (
	// ErrFamilyNotFound is returned when no document exists for a code.
	ErrFamilyNotFound = errors.New("family not found")
	// ErrFamilyExists is returned when creating a code that is already taken.
	ErrFamilyExists = errors.New("family already exists")
)
