package ports

import (
	"context"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// UserRepository persists marketplace accounts. Emails are stored lower-cased
// and must be unique; Create returns domain.ErrEmailTaken on a duplicate.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
