package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
	// ErrPersist wraps any failure to write a collection back to storage.
	ErrPersist = errors.New("failed to persist collection")
)

func persistError(collection string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersist, collection, err)
}
