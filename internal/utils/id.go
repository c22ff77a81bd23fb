package utils

import (
	"github.com/google/uuid"
)

// NewID generates a collision-resistant record id in the format <prefix>-<uuid>
func NewID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}
