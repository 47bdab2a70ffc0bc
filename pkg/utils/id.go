package utils

import "github.com/google/uuid"

// GenerateID returns a fresh UUID v4 for entity and changelog ids.
// Ids key database rows, so an empty id must never be produced;
// uuid.NewString panics if the random source fails.
func GenerateID() string {
	return uuid.NewString()
}

// IsValidUUID reports whether s parses as a UUID.
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
