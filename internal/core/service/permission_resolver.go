package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cargotrack/identity-service/internal/api/metrics"
	"github.com/cargotrack/identity-service/internal/core/ports"
)

// PermissionResolver answers per-request authorization checks against the
// user's effective permission set, with a short-TTL cache in front of the
// repository aggregation. Cache failures fall through to the repository.
type PermissionResolver struct {
	users  ports.UserRepository
	cache  ports.PermissionCache
	logger zerolog.Logger
}

func NewPermissionResolver(users ports.UserRepository, cache ports.PermissionCache, logger zerolog.Logger) *PermissionResolver {
	return &PermissionResolver{users: users, cache: cache, logger: logger}
}

// HasPermission reports whether systemName is in the user's effective set.
func (r *PermissionResolver) HasPermission(ctx context.Context, userID, systemName string) (bool, error) {
	permissions, err := r.effectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range permissions {
		if p == systemName {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate drops the cached set for one user.
func (r *PermissionResolver) Invalidate(ctx context.Context, userID string) {
	if err := r.cache.Invalidate(ctx, userID); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("permission cache invalidation failed")
	}
}

// InvalidateAll drops every cached set.
func (r *PermissionResolver) InvalidateAll(ctx context.Context) {
	if err := r.cache.InvalidateAll(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("permission cache flush failed")
	}
}

func (r *PermissionResolver) effectivePermissions(ctx context.Context, userID string) ([]string, error) {
	if cached, ok, err := r.cache.Get(ctx, userID); err != nil {
		r.logger.Warn().Err(err).Msg("permission cache read failed")
	} else if ok {
		metrics.PermissionCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.PermissionCacheTotal.WithLabelValues("miss").Inc()

	permissions, err := r.users.EffectivePermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, userID, permissions); err != nil {
		r.logger.Warn().Err(err).Msg("permission cache write failed")
	}
	return permissions, nil
}
