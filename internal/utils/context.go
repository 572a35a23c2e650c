// Package utils provides helpers shared by the client and the reference
// server: context keys, HMAC hashing, JSON responses, the HTTP client,
// session token generation and validation, and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// IdentityIDCtxKey is the key under which the auth middleware stores the
// identity id extracted from the session token.
var IdentityIDCtxKey = contextKey("identityID")

// WithIdentityID returns a copy of ctx carrying identityID.
func WithIdentityID(ctx context.Context, identityID string) context.Context {
	return context.WithValue(ctx, IdentityIDCtxKey, identityID)
}

// GetIdentityIDFromContext retrieves the identity id stored by
// [WithIdentityID]. ok is false when it is missing or empty.
func GetIdentityIDFromContext(ctx context.Context) (string, bool) {
	identityID, ok := ctx.Value(IdentityIDCtxKey).(string)
	return identityID, ok && identityID != ""
}
