package auth

import (
	"errors"
	"time"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// PasswordHasher is the credential hashing collaborator.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenService signs and verifies bearer tokens.
type TokenService interface {
	IssueToken(subject string) (token string, expiresAt time.Time, err error)
	// VerifyToken returns the subject of a valid, unexpired token. Failures
	// wrap ErrTokenExpired or ErrTokenInvalid.
	VerifyToken(token string) (subject string, err error)
}
