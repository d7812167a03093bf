package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/userhub/backend/internal/config"
	"github.com/userhub/backend/internal/db"
	"github.com/userhub/backend/internal/model"
	"github.com/userhub/backend/internal/service"
	"github.com/userhub/backend/internal/session"
)

type fakeUserRepo struct {
	users map[string]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]model.User)}
}

func (f *fakeUserRepo) GetAllUsers(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, userID string) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	u := *user
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = u
	return &u, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, userID, firstName, lastName, email, updatedBy string) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	u.FirstName, u.LastName, u.Email, u.UpdatedBy = firstName, lastName, email, updatedBy
	f.users[userID] = u
	return &u, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, userID string) error {
	if _, ok := f.users[userID]; !ok {
		return db.ErrNotFound
	}
	delete(f.users, userID)
	return nil
}

type userFixture struct {
	router *gin.Engine
	repo   *fakeUserRepo
	cookie *http.Cookie
	actor  uuid.UUID
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := testTokenService(t)
	hasher, err := service.NewPasswordHasher(config.AuthConfig{SaltSecret: "server-masking-secret"})
	require.NoError(t, err)

	repo := newFakeUserRepo()
	sessions := session.NewCookieStore(config.SessionConfig{Name: "auth", TimeoutMinutes: 20})
	identity := NewIdentityExtractor(tokens, sessions)
	h := NewUserHandler(service.NewUserService(repo, nil, hasher), identity)

	r := gin.New()
	u := r.Group("/api/v1/user")
	u.GET("", h.List)
	u.POST("", h.Create)
	u.GET("/:id", h.Get)
	u.PUT("/:id", h.Update)
	u.DELETE("/:id", h.Delete)

	actor := uuid.New()
	token, err := tokens.Create(tokens.NewClaims(actor, "admin@nothing.org"))
	require.NoError(t, err)

	return &userFixture{
		router: r,
		repo:   repo,
		cookie: &http.Cookie{Name: "auth", Value: token},
		actor:  actor,
	}
}

func (f *userFixture) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(f.cookie)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

const createBody = `{"first_name":"Satoshi","last_name":"Nakamoto","email":"satoshi@nakamotoinstitute.org","password":"123456"}`

func (f *userFixture) create(t *testing.T) model.UserResponse {
	t.Helper()
	w := f.do(http.MethodPost, "/api/v1/user", createBody, true)
	require.Equal(t, http.StatusOK, w.Code)

	var user model.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	return user
}

func TestCreateUser(t *testing.T) {
	f := newUserFixture(t)

	user := f.create(t)
	_, err := uuid.Parse(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Satoshi", user.FirstName)

	stored := f.repo.users[user.ID]
	assert.NotEqual(t, "123456", stored.PasswordHash)
	assert.Equal(t, f.actor.String(), stored.CreatedBy)
}

func TestCreateUserRequiresIdentity(t *testing.T) {
	f := newUserFixture(t)

	w := f.do(http.MethodPost, "/api/v1/user", createBody, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, f.repo.users)
}

func TestCreateUserValidation(t *testing.T) {
	f := newUserFixture(t)

	w := f.do(http.MethodPost, "/api/v1/user", `{"first_name":"a","last_name":"b","email":"nope","password":"123"}`, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "FirstName must be at least 3 characters")
	assert.Contains(t, w.Body.String(), "Email must be a valid email")
}

func TestGetUser(t *testing.T) {
	f := newUserFixture(t)
	user := f.create(t)

	w := f.do(http.MethodGet, "/api/v1/user/"+user.ID, "", true)
	require.Equal(t, http.StatusOK, w.Code)

	var got model.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, user, got)
}

func TestGetUserNotFound(t *testing.T) {
	f := newUserFixture(t)

	missing := uuid.NewString()
	w := f.do(http.MethodGet, "/api/v1/user/"+missing, "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), missing)
}

func TestGetUserBadID(t *testing.T) {
	f := newUserFixture(t)

	w := f.do(http.MethodGet, "/api/v1/user/not-a-uuid", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsers(t *testing.T) {
	f := newUserFixture(t)
	f.create(t)

	w := f.do(http.MethodGet, "/api/v1/user", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	var users model.UsersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 1)
}

func TestUpdateUser(t *testing.T) {
	f := newUserFixture(t)
	user := f.create(t)

	w := f.do(http.MethodPut, "/api/v1/user/"+user.ID,
		`{"first_name":"Dorian","last_name":"Nakamoto","email":"dorian@nothing.org"}`, true)
	require.Equal(t, http.StatusOK, w.Code)

	var got model.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Dorian", got.FirstName)
	assert.Equal(t, f.actor.String(), f.repo.users[user.ID].UpdatedBy)
}

func TestUpdateUserNotFound(t *testing.T) {
	f := newUserFixture(t)

	w := f.do(http.MethodPut, "/api/v1/user/"+uuid.NewString(),
		`{"first_name":"Dorian","last_name":"Nakamoto","email":"dorian@nothing.org"}`, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUser(t *testing.T) {
	f := newUserFixture(t)
	user := f.create(t)

	w := f.do(http.MethodDelete, "/api/v1/user/"+user.ID, "", true)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/v1/user/"+user.ID, "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
