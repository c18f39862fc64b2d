package domain

import "regexp"

var systemNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Well-known system names checked by the administrative routes.
const (
	PermUsersManage       = "users.manage"
	PermRolesManage       = "roles.manage"
	PermPermissionsManage = "permissions.manage"
)

// Permission is a named capability. SystemName is the stable machine key
// referenced by authorization checks; Name is the display label.
type Permission struct {
	Audit       `bson:",inline"`
	Name        string `json:"name" bson:"name"`
	SystemName  string `json:"system_name" bson:"system_name"`
	Description string `json:"description" bson:"description"`
	Category    string `json:"category" bson:"category"`
}

// NewPermission validates the system name and creates a permission.
func NewPermission(name, systemName, description, category string) (*Permission, error) {
	if err := validateSystemName(systemName); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, NewValidationError("name", "permission name must not be empty")
	}
	return &Permission{
		Audit:       NewAudit(),
		Name:        name,
		SystemName:  systemName,
		Description: description,
		Category:    category,
	}, nil
}

// Update replaces the permission's fields.
func (p *Permission) Update(name, systemName, description, category string) error {
	if err := validateSystemName(systemName); err != nil {
		return err
	}
	if name == "" {
		return NewValidationError("name", "permission name must not be empty")
	}
	p.Name = name
	p.SystemName = systemName
	p.Description = description
	p.Category = category
	p.Touch()
	return nil
}

// EffectivePermissionUnion computes the deduplicated union of permission
// system names held through role memberships. Soft-deleted roles and
// permissions contribute nothing, and grants belonging to roles the user
// is not a member of are ignored. The result has set semantics: each
// system name appears once.
func EffectivePermissionUnion(memberships []UserRole, roles []Role, grants []RolePermission, permissions []Permission) []string {
	held := make(map[string]struct{}, len(memberships))
	for _, m := range memberships {
		held[m.RoleID] = struct{}{}
	}

	active := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		if r.Deleted {
			continue
		}
		if _, ok := held[r.ID]; ok {
			active[r.ID] = struct{}{}
		}
	}

	granted := make(map[string]struct{}, len(grants))
	for _, g := range grants {
		if _, ok := active[g.RoleID]; ok {
			granted[g.PermissionID] = struct{}{}
		}
	}

	names := make([]string, 0, len(granted))
	seen := make(map[string]struct{}, len(granted))
	for _, p := range permissions {
		if p.Deleted {
			continue
		}
		if _, ok := granted[p.ID]; !ok {
			continue
		}
		if _, ok := seen[p.SystemName]; ok {
			continue
		}
		seen[p.SystemName] = struct{}{}
		names = append(names, p.SystemName)
	}
	return names
}

func validateSystemName(systemName string) error {
	if systemName == "" {
		return NewValidationError("system_name", "system name must not be empty")
	}
	if !systemNamePattern.MatchString(systemName) {
		return NewValidationError("system_name",
			"system name must contain only letters, digits, dots, underscores and hyphens")
	}
	return nil
}
