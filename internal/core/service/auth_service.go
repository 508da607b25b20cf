package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/petbnb/marketplace/internal/core/domain"
	"github.com/petbnb/marketplace/internal/core/ports"
)

// AuthService implements signup, login and profile lookup.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	opts      options
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger, opts ...Option) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		opts:      buildOptions(opts),
		log:       log,
	}
}

// Signup creates an account and returns it with a fresh token.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	f, err := validateSignup(in)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.FindByEmail(ctx, f.Email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("signup: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), s.opts.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := s.opts.now()
	user := &domain.User{
		ID:           s.opts.newID(),
		Name:         f.Name,
		Email:        f.Email,
		PasswordHash: string(hash),
		Role:         f.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: create user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user signed up")
	return &ports.AuthResult{User: user.Public(), Token: token}, nil
}

// Login checks the credentials. Unknown emails and wrong passwords both yield
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	f, err := validateLogin(email, password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, f.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(f.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user.Public(), Token: token}, nil
}

// Me returns the caller's public profile.
func (s *AuthService) Me(ctx context.Context, caller domain.Identity) (*domain.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID,
		"role": user.Role,
		"iat":  s.opts.now().Unix(),
		"exp":  s.opts.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
