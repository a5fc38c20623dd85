package repository

import "github.com/pkg/errors"

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	// ErrConflict is returned by versioned writes when the stored version moved on.
	ErrConflict = errors.New("version conflict")
)
