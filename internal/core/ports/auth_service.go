package ports

import (
	"context"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// LoginResult is what a successful authentication yields: the signed
// bearer token plus the profile and effective permissions for the caller's
// convenience.
type LoginResult struct {
	Token       string
	User        *domain.User
	Permissions []string
}

// AuthService implements the authentication flow.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}
