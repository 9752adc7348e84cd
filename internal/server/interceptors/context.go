package interceptors

import (
	"context"

	"event-management-system/backend/internal/auth"
)

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// WithIdentity returns a context carrying the authenticated caller.
// Handlers and guards read it back via IdentityFrom.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the caller's identity and true if the request was
// authenticated; otherwise nil, false.
func IdentityFrom(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*auth.Identity)
	if !ok || id == nil {
		return nil, false
	}
	return id, true
}

// SubjectID returns the authenticated subject id and true if set; otherwise 0, false.
func SubjectID(ctx context.Context) (int64, bool) {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return 0, false
	}
	return id.SubjectID, true
}

// SessionID returns the authenticated session id and true if set; otherwise "", false.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return "", false
	}
	return id.SessionID, true
}
