package util

import (
	"github.com/google/uuid"
)

// RandomIdentity generates a random caller identity suitable for testing
func RandomIdentity() string {
	return "user-" + uuid.New().String()
}
