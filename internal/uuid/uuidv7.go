// Package uuid issues and checks the identifiers used for every persisted row.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a time-ordered UUIDv7 string, suitable as a primary key.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// entropy failure; a random v4 is still unique
		return googleuuid.New().String()
	}
	return id.String()
}

// Normalize parses s and returns its canonical lower-case form.
func Normalize(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}
