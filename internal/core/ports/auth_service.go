package ports

import (
	"context"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// SignupInput is the raw signup payload.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	User  *domain.PublicUser
	Token string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, id domain.Identity) (*domain.PublicUser, error)
}
