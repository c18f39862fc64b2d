package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func newResolverFixture() (*PermissionResolver, *stubUserRepo, *stubCache) {
	repo := newStubUserRepo()
	cache := newStubCache()
	return NewPermissionResolver(repo, cache, zerolog.Nop()), repo, cache
}

func TestPermissionResolver_HasPermission(t *testing.T) {
	resolver, repo, _ := newResolverFixture()
	repo.perms["user-1"] = []string{"users.manage", "shipments.dispatch"}

	ok, err := resolver.HasPermission(context.Background(), "user-1", "shipments.dispatch")
	if err != nil {
		t.Fatalf("HasPermission: %v", err)
	}
	if !ok {
		t.Fatalf("expected granted permission")
	}

	ok, err = resolver.HasPermission(context.Background(), "user-1", "roles.manage")
	if err != nil {
		t.Fatalf("HasPermission: %v", err)
	}
	if ok {
		t.Fatalf("expected denial for permission outside the effective set")
	}
}

func TestPermissionResolver_CachesResolvedSet(t *testing.T) {
	resolver, repo, cache := newResolverFixture()
	repo.perms["user-1"] = []string{"users.manage"}

	if _, err := resolver.HasPermission(context.Background(), "user-1", "users.manage"); err != nil {
		t.Fatalf("HasPermission: %v", err)
	}
	if repo.permCalls != 1 || cache.sets != 1 {
		t.Fatalf("expected one repository resolution and one cache write, got %d/%d", repo.permCalls, cache.sets)
	}

	// Second check is served from the cache.
	if _, err := resolver.HasPermission(context.Background(), "user-1", "users.manage"); err != nil {
		t.Fatalf("HasPermission: %v", err)
	}
	if repo.permCalls != 1 {
		t.Fatalf("expected cached result, repository was hit %d times", repo.permCalls)
	}
}

func TestPermissionResolver_CacheFailureFallsThrough(t *testing.T) {
	resolver, repo, cache := newResolverFixture()
	repo.perms["user-1"] = []string{"users.manage"}
	cache.readFail = true

	ok, err := resolver.HasPermission(context.Background(), "user-1", "users.manage")
	if err != nil {
		t.Fatalf("cache failure must not fail the check: %v", err)
	}
	if !ok {
		t.Fatalf("expected repository fallback to grant the permission")
	}
	if repo.permCalls != 1 {
		t.Fatalf("expected repository resolution, got %d calls", repo.permCalls)
	}
}

func TestPermissionResolver_InvalidateForcesReresolution(t *testing.T) {
	resolver, repo, cache := newResolverFixture()
	repo.perms["user-1"] = []string{"users.manage"}

	if _, err := resolver.HasPermission(context.Background(), "user-1", "users.manage"); err != nil {
		t.Fatalf("HasPermission: %v", err)
	}

	// Revoke and invalidate: the next check must see the new set.
	repo.perms["user-1"] = nil
	resolver.Invalidate(context.Background(), "user-1")

	ok, err := resolver.HasPermission(context.Background(), "user-1", "users.manage")
	if err != nil {
		t.Fatalf("HasPermission: %v", err)
	}
	if ok {
		t.Fatalf("expected revocation to take effect after invalidation")
	}
	if len(cache.dropped) != 1 || cache.dropped[0] != "user-1" {
		t.Fatalf("expected cache drop for user-1, got %v", cache.dropped)
	}
}

func TestPermissionResolver_InvalidateAll(t *testing.T) {
	resolver, repo, cache := newResolverFixture()
	repo.perms["user-1"] = []string{"users.manage"}
	repo.perms["user-2"] = []string{"roles.manage"}

	for _, id := range []string{"user-1", "user-2"} {
		if _, err := resolver.HasPermission(context.Background(), id, "users.manage"); err != nil {
			t.Fatalf("HasPermission: %v", err)
		}
	}

	resolver.InvalidateAll(context.Background())
	if cache.flushes != 1 {
		t.Fatalf("expected full flush, got %d", cache.flushes)
	}
	if len(cache.values) != 0 {
		t.Fatalf("expected empty cache after flush, got %v", cache.values)
	}
}
