// Package auth holds the pieces of opaque-token authentication that do not
// depend on storage: key generation, password hashing, bearer parsing and the
// request-context identity.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// KeyBytes is the entropy of an auth key; hex-encoded it is 40 characters.
const KeyBytes = 20

// Identity is the authenticated user attached to a request.
type Identity struct {
	UserID   uint
	Username string
	Email    string
	Key      string
}

// Authenticator resolves a bearer key to an identity. Implementations return
// an apperr.Unauthorized error for unknown keys.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (Identity, error)
}

// GenerateKey returns a fresh 40-character lowercase hex key.
func GenerateKey() (string, error) {
	b := make([]byte, KeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: generate key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// BearerToken extracts the key from "Authorization: Bearer <key>".
// It returns "" when the header is missing or uses another scheme.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, key, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(key)
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the identity stored by the auth middleware.
func FromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
