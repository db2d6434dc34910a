// Package auth resolves bearer tokens to verified user identifiers.
//
// The identity provider is an external collaborator; the core only needs
// a stable, opaque user id per request. The default Verifier is a static
// token registry loaded from configuration, substitutable with a real
// IdP-backed implementation.
package auth

import (
	"context"

	"github.com/visperhq/visper/internal/apperr"
)

// Verifier turns a bearer token into a verified user id.
type Verifier interface {
	// Verify returns the user id for token, or apperr.ErrUnauthorized.
	Verify(ctx context.Context, token string) (string, error)
}

// TokenRegistry is a Verifier backed by a static token -> user id map.
type TokenRegistry struct {
	tokens map[string]string
}

// NewTokenRegistry copies the given token -> user id map.
func NewTokenRegistry(tokens map[string]string) *TokenRegistry {
	m := make(map[string]string, len(tokens))
	for token, userID := range tokens {
		m[token] = userID
	}
	return &TokenRegistry{tokens: m}
}

// Verify implements Verifier.
func (r *TokenRegistry) Verify(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.ErrUnauthorized
	}
	userID, ok := r.tokens[token]
	if !ok {
		return "", apperr.ErrUnauthorized
	}
	return userID, nil
}

// StaticUser is a Verifier for disabled-auth mode: every request maps to
// the one configured local user.
type StaticUser string

// Verify implements Verifier.
func (u StaticUser) Verify(context.Context, string) (string, error) {
	return string(u), nil
}

type contextKey struct{}

// WithUserID returns a context carrying the verified user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID extracts the verified user id from the context.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	return userID, ok && userID != ""
}
