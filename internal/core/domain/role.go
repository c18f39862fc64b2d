package domain

import (
	"regexp"
	"time"
)

var roleNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)

// Role is a named, described collection of permissions. The role owns its
// permission association records; permissions themselves are shared.
type Role struct {
	Audit       `bson:",inline"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
}

// NewRole validates the name and creates a role.
func NewRole(name, description string) (*Role, error) {
	if err := validateRoleName(name); err != nil {
		return nil, err
	}
	return &Role{Audit: NewAudit(), Name: name, Description: description}, nil
}

// Update replaces the role's name and description.
func (r *Role) Update(name, description string) error {
	if err := validateRoleName(name); err != nil {
		return err
	}
	r.Name = name
	r.Description = description
	r.Touch()
	return nil
}

func validateRoleName(name string) error {
	if name == "" {
		return NewValidationError("name", "role name must not be empty")
	}
	if !roleNamePattern.MatchString(name) {
		return NewValidationError("name",
			"role name must be 3-50 characters and contain only letters, digits, dots, underscores and hyphens")
	}
	return nil
}

// RolePermission attaches a permission to a role. Pure join record owned
// by the role.
type RolePermission struct {
	RoleID       string    `json:"role_id" bson:"role_id"`
	PermissionID string    `json:"permission_id" bson:"permission_id"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
