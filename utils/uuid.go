package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a fresh random identifier, used for bid ids.
func GenerateID() string {
	return uuid.New().String()
}
