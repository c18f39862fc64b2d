package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// In-memory test doubles shared by the service tests.

type stubUserRepo struct {
	users       map[string]*domain.User
	perms       map[string][]string // userID -> effective permission names
	roleSets    map[string][]string // userID -> assigned role ids
	updateCalls int
	permCalls   int
	nextID      int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:    make(map[string]*domain.User),
		perms:    make(map[string][]string),
		roleSets: make(map[string][]string),
	}
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	if u.ID == "" {
		r.nextID++
		u.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	clone := *u
	r.users[u.ID] = &clone
	return u
}

// hydrated mirrors the repository contract: every finder returns the user
// with its role ids attached.
func (r *stubUserRepo) hydrated(u *domain.User) *domain.User {
	clone := *u
	clone.RoleIDs = append([]string(nil), r.roleSets[u.ID]...)
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && !u.Deleted {
			return r.hydrated(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username && !u.Deleted {
			return r.hydrated(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || u.Deleted {
		return nil, domain.ErrUserNotFound
	}
	return r.hydrated(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	return r.add(user), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	r.updateCalls++
	return nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) && !u.Deleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == strings.ToLower(username) && !u.Deleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ReplaceRoles(_ context.Context, userID string, roleIDs []string) error {
	r.roleSets[userID] = append([]string(nil), roleIDs...)
	return nil
}

func (r *stubUserRepo) EffectivePermissions(_ context.Context, userID string) ([]string, error) {
	r.permCalls++
	return r.perms[userID], nil
}

// stubHasher marks hashes instead of deriving them, so tests can see
// exactly what was stored.
type stubHasher struct {
	rehash bool
}

func (h *stubHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *stubHasher) VerifyPassword(password, encodedHash string) (bool, error) {
	return encodedHash == "hashed:"+password, nil
}

func (h *stubHasher) NeedsRehash(string) (bool, error) {
	return h.rehash, nil
}

type stubNotifier struct {
	welcomes []string
	lockouts []string
}

func (n *stubNotifier) SendWelcome(_ context.Context, to, _ string) {
	n.welcomes = append(n.welcomes, to)
}

func (n *stubNotifier) SendLockoutNotice(_ context.Context, to string, _ int) {
	n.lockouts = append(n.lockouts, to)
}

type stubResolver struct {
	invalidated   []string
	flushes       int
	permissionSet map[string]bool
}

func (r *stubResolver) HasPermission(_ context.Context, userID, systemName string) (bool, error) {
	return r.permissionSet[userID+"/"+systemName], nil
}

func (r *stubResolver) Invalidate(_ context.Context, userID string) {
	r.invalidated = append(r.invalidated, userID)
}

func (r *stubResolver) InvalidateAll(context.Context) {
	r.flushes++
}

type stubRoleRepo struct {
	roles     map[string]*domain.Role
	rolePerms map[string][]string // roleID -> permission ids
	replaced  map[string][]string
	nextID    int
	permRepo  *stubPermissionRepo
}

func newStubRoleRepo(permRepo *stubPermissionRepo) *stubRoleRepo {
	return &stubRoleRepo{
		roles:     make(map[string]*domain.Role),
		rolePerms: make(map[string][]string),
		replaced:  make(map[string][]string),
		permRepo:  permRepo,
	}
}

func (r *stubRoleRepo) add(role *domain.Role) *domain.Role {
	if role.ID == "" {
		r.nextID++
		role.ID = fmt.Sprintf("role-%d", r.nextID)
	}
	clone := *role
	r.roles[role.ID] = &clone
	return role
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.Name == name && !role.Deleted {
			clone := *role
			return &clone, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok || role.Deleted {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	return r.add(role), nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *domain.Role) error {
	if _, ok := r.roles[role.ID]; !ok {
		return domain.ErrRoleNotFound
	}
	clone := *role
	r.roles[role.ID] = &clone
	return nil
}

func (r *stubRoleRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, role := range r.roles {
		if role.Name == name && !role.Deleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRoleRepo) PermissionsOf(_ context.Context, roleID string) ([]domain.Permission, error) {
	var out []domain.Permission
	for _, pid := range r.rolePerms[roleID] {
		if p, ok := r.permRepo.perms[pid]; ok && !p.Deleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubRoleRepo) AddPermission(_ context.Context, roleID, permissionID string) error {
	for _, pid := range r.rolePerms[roleID] {
		if pid == permissionID {
			return nil
		}
	}
	r.rolePerms[roleID] = append(r.rolePerms[roleID], permissionID)
	return nil
}

func (r *stubRoleRepo) RemovePermission(_ context.Context, roleID, permissionID string) error {
	kept := r.rolePerms[roleID][:0]
	for _, pid := range r.rolePerms[roleID] {
		if pid != permissionID {
			kept = append(kept, pid)
		}
	}
	r.rolePerms[roleID] = kept
	return nil
}

func (r *stubRoleRepo) ReplacePermissions(_ context.Context, roleID string, permissionIDs []string) error {
	r.rolePerms[roleID] = append([]string(nil), permissionIDs...)
	r.replaced[roleID] = append([]string(nil), permissionIDs...)
	return nil
}

type stubPermissionRepo struct {
	perms  map[string]*domain.Permission
	nextID int
}

func newStubPermissionRepo() *stubPermissionRepo {
	return &stubPermissionRepo{perms: make(map[string]*domain.Permission)}
}

func (r *stubPermissionRepo) add(p *domain.Permission) *domain.Permission {
	if p.ID == "" {
		r.nextID++
		p.ID = fmt.Sprintf("perm-%d", r.nextID)
	}
	clone := *p
	r.perms[p.ID] = &clone
	return p
}

func (r *stubPermissionRepo) FindBySystemName(_ context.Context, systemName string) (*domain.Permission, error) {
	for _, p := range r.perms {
		if p.SystemName == systemName && !p.Deleted {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrPermissionNotFound
}

func (r *stubPermissionRepo) FindByID(_ context.Context, id string) (*domain.Permission, error) {
	p, ok := r.perms[id]
	if !ok || p.Deleted {
		return nil, domain.ErrPermissionNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPermissionRepo) Create(_ context.Context, permission *domain.Permission) (*domain.Permission, error) {
	return r.add(permission), nil
}

func (r *stubPermissionRepo) Update(_ context.Context, permission *domain.Permission) error {
	if _, ok := r.perms[permission.ID]; !ok {
		return domain.ErrPermissionNotFound
	}
	clone := *permission
	r.perms[permission.ID] = &clone
	return nil
}

func (r *stubPermissionRepo) ExistsBySystemName(_ context.Context, systemName string) (bool, error) {
	for _, p := range r.perms {
		if p.SystemName == systemName && !p.Deleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPermissionRepo) FindByCategory(_ context.Context, category string) ([]domain.Permission, error) {
	var out []domain.Permission
	for _, p := range r.perms {
		if p.Category == category && !p.Deleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPermissionRepo) Categories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.perms {
		if p.Category != "" && !p.Deleted && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

type stubCache struct {
	values   map[string][]string
	readFail bool
	gets     int
	sets     int
	flushes  int
	dropped  []string
}

func newStubCache() *stubCache {
	return &stubCache{values: make(map[string][]string)}
}

func (c *stubCache) Get(_ context.Context, userID string) ([]string, bool, error) {
	c.gets++
	if c.readFail {
		return nil, false, fmt.Errorf("cache unavailable")
	}
	v, ok := c.values[userID]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, userID string, permissions []string) error {
	c.sets++
	c.values[userID] = append([]string(nil), permissions...)
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, userID string) error {
	delete(c.values, userID)
	c.dropped = append(c.dropped, userID)
	return nil
}

func (c *stubCache) InvalidateAll(context.Context) error {
	c.values = make(map[string][]string)
	c.flushes++
	return nil
}
