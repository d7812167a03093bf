package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/userhub/backend/internal/db"
	"github.com/userhub/backend/internal/model"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrMisconfigured = errors.New("auth config invalid")
)

// UserFinder is the slice of persistence the login flow needs.
type UserFinder interface {
	FindSaltByEmail(ctx context.Context, email string) (string, error)
	FindByCredentials(ctx context.Context, email, digest string) (*model.User, error)
}

// AuthService verifies credentials and mints session tokens. It owns no
// mutable state; everything it holds is fixed at startup.
type AuthService struct {
	repo   UserFinder
	tokens *TokenService
	hasher *PasswordHasher
}

func NewAuthService(repo UserFinder, tokens *TokenService, hasher *PasswordHasher) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, hasher: hasher}
}

// Login re-computes the digest from the stored record salt and matches
// email plus digest in one lookup. A wrong password and an unknown email
// both come back as ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	salt, err := s.repo.FindSaltByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, "", ErrUnauthorized
		}
		return nil, "", err
	}

	digest, err := s.hasher.Hash(password, salt)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.FindByCredentials(ctx, email, digest)
	if err != nil {
		if db.IsNoRows(err) {
			slog.Debug("login rejected", "email", email)
			return nil, "", ErrUnauthorized
		}
		return nil, "", err
	}

	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("stored user id is not a uuid: %w", err)
	}

	token, err := s.tokens.Create(s.tokens.NewClaims(userID, user.Email))
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
