package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityContextKey is the context key for the authenticated user ID.
const identityContextKey contextKey = "identity"

// ContextWithUserID threads the authenticated user's ID through the
// request context. The session middleware sets it after resolving the
// session cookie; anonymous requests carry no identity.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, identityContextKey, userID)
}

// UserIDFromContext returns the authenticated user ID and true, or
// (0, false) for an anonymous request. Anonymous is a normal state,
// not an error.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(identityContextKey).(int64)
	return id, ok
}
