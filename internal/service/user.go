package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/userhub/backend/internal/model"
)

// UserRepository is the persistence surface the CRUD service needs.
type UserRepository interface {
	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUser(ctx context.Context, userID, firstName, lastName, email, updatedBy string) (*model.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// UserCache is the optional read cache. Any error from Get counts as a
// miss; Set and Delete failures are logged, never surfaced.
type UserCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type UserService struct {
	repo   UserRepository
	cache  UserCache
	hasher *PasswordHasher
}

// NewUserService wires the CRUD service. cache may be nil when no cache
// is configured.
func NewUserService(repo UserRepository, cache UserCache, hasher *PasswordHasher) *UserService {
	return &UserService{repo: repo, cache: cache, hasher: hasher}
}

func (s *UserService) List(ctx context.Context) (model.UsersResponse, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make(model.UsersResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].Response())
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	key := cacheKey(userID.String())
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var resp model.UserResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	user, err := s.repo.GetUserByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	resp := user.Response()
	s.cacheSet(ctx, key, &resp)
	return &resp, nil
}

// Create generates the record salt alongside the id. The salt is stored
// with the row so login can re-derive the exact digest.
func (s *UserService) Create(ctx context.Context, actorID string, req model.CreateUserRequest) (*model.UserResponse, error) {
	userID := uuid.New()
	recordSalt := uuid.NewString()

	digest, err := s.hasher.Hash(req.Password, recordSalt)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, &model.User{
		ID:           userID.String(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: digest,
		PasswordSalt: recordSalt,
		CreatedBy:    actorID,
		UpdatedBy:    actorID,
	})
	if err != nil {
		return nil, err
	}

	resp := user.Response()
	return &resp, nil
}

func (s *UserService) Update(ctx context.Context, userID uuid.UUID, actorID string, req model.UpdateUserRequest) (*model.UserResponse, error) {
	user, err := s.repo.UpdateUser(ctx, userID.String(), req.FirstName, req.LastName, req.Email, actorID)
	if err != nil {
		return nil, err
	}

	s.cacheDelete(ctx, cacheKey(userID.String()))
	resp := user.Response()
	return &resp, nil
}

func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteUser(ctx, userID.String()); err != nil {
		return err
	}
	s.cacheDelete(ctx, cacheKey(userID.String()))
	return nil
}

func (s *UserService) cacheSet(ctx context.Context, key string, resp *model.UserResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw)); err != nil {
		slog.Debug("cache set failed", "key", key, "error", err)
	}
}

func (s *UserService) cacheDelete(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		slog.Debug("cache delete failed", "key", key, "error", err)
	}
}

func cacheKey(userID string) string {
	return "user:" + userID
}
