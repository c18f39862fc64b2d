package ports

import "context"

// PermissionResolver answers per-request authorization checks. Tokens carry
// identity only; the effective permission set is resolved from the user id
// on every request so revocation takes effect without reissuing tokens.
type PermissionResolver interface {
	HasPermission(ctx context.Context, userID, systemName string) (bool, error)

	// Invalidate drops any cached permission set for the user.
	Invalidate(ctx context.Context, userID string)

	// InvalidateAll drops every cached permission set. Used when a role's
	// permission set changes, since affected users are not enumerated.
	InvalidateAll(ctx context.Context)
}
