package entity

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identifiers are 24-character hexadecimal ObjectIDs regardless of the
// storage backend, so path parameters validate the same way everywhere.

// NewID returns a fresh identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s is a well-formed identifier.
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}

// NormalizeID returns s in the lower-case form ids are stored in and
// reports whether it is well-formed. Hex is accepted in either case.
func NormalizeID(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, IsValidID(s)
}

// Now returns the current time at the millisecond precision every backend
// can store, so round-tripped timestamps compare equal.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
