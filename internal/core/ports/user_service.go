package ports

import (
	"context"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// RegisterUserInput carries everything needed to create an account.
type RegisterUserInput struct {
	Email       string
	Username    string
	Password    string
	FirstName   string
	LastName    string
	CompanyName string
	PhoneNumber string
	RoleIDs     []string
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	FirstName   string
	LastName    string
	CompanyName string
	PhoneNumber string
}

// UserService implements account administration.
type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	ReplaceRoles(ctx context.Context, id string, roleIDs []string) error
	Delete(ctx context.Context, id string) error
}
