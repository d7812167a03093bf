package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/userhub/backend/internal/model"
	"github.com/userhub/backend/internal/service"
	"github.com/userhub/backend/internal/session"
)

// IdentityExtractor turns the request's opaque identity into a typed
// AuthUser for handler code. It decodes the token itself rather than
// trusting anything the gate may have stashed on the context.
type IdentityExtractor struct {
	tokens   *service.TokenService
	sessions session.Store
}

func NewIdentityExtractor(tokens *service.TokenService, sessions session.Store) *IdentityExtractor {
	return &IdentityExtractor{tokens: tokens, sessions: sessions}
}

// Extract returns the authenticated user or service.ErrUnauthorized.
// Never a nil user with a nil error.
func (e *IdentityExtractor) Extract(c *gin.Context) (*model.AuthUser, error) {
	claims, err := e.tokens.Decode(e.sessions.Get(c))
	if err != nil {
		return nil, service.ErrUnauthorized
	}
	return &model.AuthUser{
		ID:    claims.UserID.String(),
		Email: claims.Email,
	}, nil
}
