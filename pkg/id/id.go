package id

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// New returns a random (v4) identifier as 32 lowercase hex characters.
func New() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Valid reports whether s has the shape produced by New.
func Valid(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ValidRequestID accepts either a canonical UUID or a 32-hex identifier.
func ValidRequestID(s string) bool {
	if Valid(s) {
		return true
	}
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
