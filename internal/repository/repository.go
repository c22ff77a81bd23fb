package repository

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by a KVRepository when the key holds no document.
	ErrKeyNotFound = errors.New("repository: key not found")
	// ErrCorruptCollection is returned when a stored document cannot be decoded.
	ErrCorruptCollection = errors.New("repository: corrupt collection")
)

// KVRepository defines the interface for the key/value persistence substrate.
// Values are opaque serialized documents; there are no transactions and no
// partial writes.
type KVRepository interface {
	// Get returns the document stored under key, or ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the document stored under key
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}

// Collection names. The persisted key is the configured prefix plus the name.
const (
	KeyCurrentUser = "currentUser"
	KeyUsers       = "users"
	KeyTasks       = "tasks"
	KeyProjects    = "projects"
)

// AllKeys lists every collection name in a stable order.
var AllKeys = []string{KeyCurrentUser, KeyUsers, KeyTasks, KeyProjects}
