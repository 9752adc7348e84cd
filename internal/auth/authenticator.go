// Package auth implements the per-request authentication pipeline and the
// session lifecycle operations (login, refresh, logout, password change).
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"event-management-system/backend/internal/audit"
	auditdomain "event-management-system/backend/internal/audit/domain"
	"event-management-system/backend/internal/authority"
	"event-management-system/backend/internal/registry"
	"event-management-system/backend/internal/security"
)

// Identity is the authenticated caller for exactly one request: who they are
// and what they may do. Never cached across requests.
type Identity struct {
	SubjectID    int64
	SessionID    string
	Capabilities authority.CapabilitySet
}

// CapabilityResolver materializes a subject's capability set.
// *authority.Resolver satisfies this.
type CapabilityResolver interface {
	Resolve(ctx context.Context, subjectID int64) (authority.CapabilitySet, error)
}

// Authenticator reconstructs a caller's identity from a bearer credential.
// Every failure degrades to unauthenticated; Authenticate never reports an
// error to its caller. Whether an endpoint may proceed unauthenticated is a
// separate, later decision.
type Authenticator struct {
	tokens   *security.TokenProvider
	sessions registry.Registry
	resolver CapabilityResolver
	recorder audit.Recorder // may be nil
}

// NewAuthenticator returns an Authenticator over the given collaborators.
// recorder may be nil; then security alerts are only logged.
func NewAuthenticator(tokens *security.TokenProvider, sessions registry.Registry, resolver CapabilityResolver, recorder audit.Recorder) *Authenticator {
	return &Authenticator{tokens: tokens, sessions: sessions, resolver: resolver, recorder: recorder}
}

// Authenticate verifies rawCredential (the bearer token, already stripped of
// the "Bearer " prefix) and returns the caller's Identity, or nil for
// unauthenticated. The pipeline: verify signature and expiry, require the
// ACCESS class, require a live registry entry owned by the same subject, then
// resolve capabilities. A registry miss is what makes logout effective; a
// subject mismatch is flagged as a security event but still just fails closed.
func (a *Authenticator) Authenticate(ctx context.Context, rawCredential string) *Identity {
	if rawCredential == "" {
		return nil
	}
	claims, err := a.tokens.Verify(rawCredential)
	if err != nil {
		log.Printf("auth: token rejected: %v", err)
		return nil
	}
	if claims.Class != security.TokenClassAccess {
		log.Printf("auth: %s token presented to the request pipeline, rejecting", claims.Class)
		return nil
	}
	subjectID, err := claims.SubjectID()
	if err != nil {
		log.Printf("auth: token rejected: %v", err)
		return nil
	}
	cachedSubject, ok, err := a.sessions.Lookup(ctx, claims.SessionID)
	if err != nil {
		// Registry unavailable: fail closed rather than trusting the token alone.
		log.Printf("auth: session lookup failed for %s: %v", claims.SessionID, err)
		return nil
	}
	if !ok {
		log.Printf("auth: session %s not registered (revoked or expired)", claims.SessionID)
		return nil
	}
	if cachedSubject != subjectID {
		log.Printf("auth: subject mismatch for session %s: token says %d, registry says %d (possible tampering)",
			claims.SessionID, subjectID, cachedSubject)
		audit.RecordAsync(a.recorder, cachedSubject, auditdomain.EventSecurityAlert, claims.SessionID,
			fmt.Sprintf("token subject %d does not match registered subject %d", subjectID, cachedSubject))
		return nil
	}
	caps, err := a.resolver.Resolve(ctx, subjectID)
	if err != nil {
		if errors.Is(err, authority.ErrSubjectNotFound) {
			log.Printf("auth: subject %d no longer exists, rejecting session %s", subjectID, claims.SessionID)
		} else {
			log.Printf("auth: capability resolution failed for subject %d: %v", subjectID, err)
		}
		return nil
	}
	return &Identity{SubjectID: subjectID, SessionID: claims.SessionID, Capabilities: caps}
}
