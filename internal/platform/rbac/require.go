// Package rbac provides per-handler capability checks on top of the identity
// the auth interceptor placed in context. The interceptor decides whether a
// request may proceed at all; these guards decide whether the caller may
// perform a specific operation.
package rbac

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"event-management-system/backend/internal/auth"
	"event-management-system/backend/internal/authority"
	"event-management-system/backend/internal/server/interceptors"
)

// RequireCapability ensures the caller is authenticated and holds the named
// capability (already in canonical form, e.g. "PERMISSION_EVENT.MANAGE.OWN").
// Returns the caller's identity on success; returns a gRPC error
// (Unauthenticated or PermissionDenied) on failure.
func RequireCapability(ctx context.Context, capability string) (*auth.Identity, error) {
	id, ok := interceptors.IdentityFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	if !id.Capabilities.Contains(capability) {
		return nil, status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	return id, nil
}

// RequirePermission is RequireCapability for a bare permission name: it
// prepends the canonical PERMISSION_ prefix and uppercases the name.
func RequirePermission(ctx context.Context, permission string) (*auth.Identity, error) {
	return RequireCapability(ctx, authority.PermissionCapability(permission))
}

// RequireRole ensures the caller is authenticated and holds the named role
// (bare role name, e.g. "admin"; prefixing and casing are canonicalized here).
func RequireRole(ctx context.Context, role string) (*auth.Identity, error) {
	return RequireCapability(ctx, authority.RoleCapability(role))
}

// RequireAuthenticated ensures the caller is authenticated, with no further
// capability check. For endpoints any signed-in subject may call, such as
// viewing their own profile.
func RequireAuthenticated(ctx context.Context) (*auth.Identity, error) {
	id, ok := interceptors.IdentityFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	return id, nil
}
