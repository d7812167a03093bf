package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/userhub/backend/internal/db"
	"github.com/userhub/backend/internal/model"
)

type fakeUserFinder struct {
	user   *model.User
	salt   string
	digest string
}

func (f *fakeUserFinder) FindSaltByEmail(_ context.Context, email string) (string, error) {
	if f.user == nil || email != f.user.Email {
		return "", db.ErrNotFound
	}
	return f.salt, nil
}

func (f *fakeUserFinder) FindByCredentials(_ context.Context, email, digest string) (*model.User, error) {
	if f.user == nil || email != f.user.Email || digest != f.digest {
		return nil, db.ErrNotFound
	}
	return f.user, nil
}

func newLoginFixture(t *testing.T, password string) (*AuthService, *model.User) {
	t.Helper()

	tokens := newTokenService(t, "test-signing-key")
	hasher := newHasher(t, "server-masking-secret")

	user := &model.User{
		ID:    uuid.NewString(),
		Email: "satoshi@nakamotoinstitute.org",
	}
	salt := uuid.NewString()
	digest, err := hasher.Hash(password, salt)
	require.NoError(t, err)
	user.PasswordHash = digest

	repo := &fakeUserFinder{user: user, salt: salt, digest: digest}
	return NewAuthService(repo, tokens, hasher), user
}

func TestLoginSuccess(t *testing.T) {
	svc, want := newLoginFixture(t, "123456")

	user, token, err := svc.Login(context.Background(), want.Email, "123456")
	require.NoError(t, err)
	assert.Equal(t, want.ID, user.ID)

	claims, err := svc.tokens.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, want.ID, claims.UserID.String())
	assert.Equal(t, want.Email, claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, want := newLoginFixture(t, "123456")

	_, _, err := svc.Login(context.Background(), want.Email, "654321")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newLoginFixture(t, "123456")

	_, _, err := svc.Login(context.Background(), "nobody@nothing.org", "123456")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
