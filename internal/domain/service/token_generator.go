package service

import (
	"crypto/rand"
	"encoding/base64"
)

// Token entropy in bytes before URL-safe encoding.
const (
	verificationTokenBytes = 48
	resetTokenBytes        = 48
	sessionTokenBytes      = 24
)

// TokenGenerator mints opaque, unguessable, URL-safe tokens from the
// operating system's CSPRNG. Collisions are treated as impossible; no
// uniqueness check against storage is performed.
type TokenGenerator struct{}

func (TokenGenerator) VerificationToken() (string, error) {
	return randomToken(verificationTokenBytes)
}

func (TokenGenerator) PasswordResetToken() (string, error) {
	return randomToken(resetTokenBytes)
}

func (TokenGenerator) SessionToken() (string, error) {
	return randomToken(sessionTokenBytes)
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
