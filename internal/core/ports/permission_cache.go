package ports

import "context"

// PermissionCache is the short-TTL store backing the permission resolver.
// A miss is not an error; cache failures degrade to repository lookups.
type PermissionCache interface {
	Get(ctx context.Context, userID string) ([]string, bool, error)
	Set(ctx context.Context, userID string, permissions []string) error
	Invalidate(ctx context.Context, userID string) error
	InvalidateAll(ctx context.Context) error
}
