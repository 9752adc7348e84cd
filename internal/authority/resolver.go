// Package authority turns a subject's role assignment into the capability set
// enforced on every request.
package authority

import (
	"context"
	"errors"
	"log"
)

// ErrSubjectNotFound is returned by Resolve when no subject with the given id
// exists (e.g. the user was deleted after a token was issued).
var ErrSubjectNotFound = errors.New("subject not found")

// Role is a subject's single assigned role and its permission names.
// Subjects have at most one role.
type Role struct {
	ID          int64
	Name        string
	Permissions []string
}

// RoleStore reads the current role assignment for a subject. RoleOf returns
// (nil, nil) when the subject exists but has no role, and ErrSubjectNotFound
// when the subject itself is missing.
type RoleStore interface {
	RoleOf(ctx context.Context, subjectID int64) (*Role, error)
}

// Resolver materializes capability sets from the role store. It holds no
// state; every Resolve reflects the assignment at call time.
type Resolver struct {
	store RoleStore
}

// NewResolver returns a Resolver reading from store.
func NewResolver(store RoleStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the subject's capability set: ROLE_<NAME> for the assigned
// role plus PERMISSION_<NAME> for each of the role's permissions. A subject
// without a role gets an empty set, not an error.
func (r *Resolver) Resolve(ctx context.Context, subjectID int64) (CapabilitySet, error) {
	role, err := r.store.RoleOf(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	caps := make(CapabilitySet)
	if role == nil {
		log.Printf("authority: subject %d has no role assigned", subjectID)
		return caps, nil
	}
	caps.Add(RoleCapability(role.Name))
	for _, p := range role.Permissions {
		caps.Add(PermissionCapability(p))
	}
	return caps, nil
}
