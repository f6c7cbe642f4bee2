package id

import "github.com/google/uuid"

// NewToken returns an opaque, unguessable visitor token.
func NewToken() string {
	return uuid.NewString()
}

// ValidToken reports whether s looks like a token issued by NewToken.
func ValidToken(s string) bool {
	if s == "" {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
