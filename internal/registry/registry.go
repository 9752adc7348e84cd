// Package registry is the server-side session liveness cache. Signed tokens
// are stateless; registering their session ids here is what makes them
// revocable: the request pipeline rejects any token whose session id is no
// longer present, regardless of signature and expiry.
package registry

import (
	"context"
	"time"
)

// Registry maps a session id to the owning subject until the entry expires or
// is revoked. Implementations must be safe for concurrent use without
// serializing all operations behind a single lock; this sits on the hot path
// of every authenticated request.
type Registry interface {
	// Register stores or overwrites the entry with expiry now+ttl.
	Register(ctx context.Context, sessionID string, subjectID int64, ttl time.Duration) error
	// Lookup returns the owning subject id and true if the entry exists and is
	// unexpired. An expired entry is treated as absent and removed.
	Lookup(ctx context.Context, sessionID string) (int64, bool, error)
	// Revoke removes the entry. Revoking a missing session id is a no-op.
	Revoke(ctx context.Context, sessionID string) error
	// Size reports the number of stored entries for monitoring. The count may
	// include expired entries not yet lazily evicted.
	Size(ctx context.Context) (int, error)
}
