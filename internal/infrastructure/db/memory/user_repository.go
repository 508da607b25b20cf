package memory

import (
	"context"
	"strings"

	"github.com/petbnb/marketplace/internal/core/domain"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range r.s.users {
		if strings.ToLower(u.Email) == email {
			return domain.ErrEmailTaken
		}
	}
	c := *user
	c.Email = email
	r.s.users[c.ID] = &c
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.s.users {
		if strings.ToLower(u.Email) == email {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
