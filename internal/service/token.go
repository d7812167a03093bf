package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/userhub/backend/internal/config"
)

var (
	// ErrTokenEncoding means signing could not complete; surfaced as an
	// internal error, never as unauthorized.
	ErrTokenEncoding = errors.New("cannot encode token")
	// ErrTokenDecoding covers bad signature, malformed payload and
	// expiry alike. Callers must not distinguish the cause.
	ErrTokenDecoding = errors.New("cannot decode token")
)

// Claims identify a user for the lifetime of one token. They exist only
// inside the signed token and are never persisted.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// TokenService creates and verifies signed session tokens. It holds only
// immutable key material and is safe for concurrent use.
type TokenService struct {
	key []byte
	ttl time.Duration
}

func NewTokenService(cfg config.AuthConfig) (*TokenService, error) {
	if cfg.JWTKey == "" {
		return nil, fmt.Errorf("%w: JWT_KEY is required", ErrMisconfigured)
	}
	if cfg.JWTExpirationHours <= 0 {
		return nil, fmt.Errorf("%w: JWT_EXPIRATION must be positive", ErrMisconfigured)
	}
	return &TokenService{
		key: []byte(cfg.JWTKey),
		ttl: time.Duration(cfg.JWTExpirationHours) * time.Hour,
	}, nil
}

// NewClaims builds Claims expiring after the configured token lifetime.
// Expiry is truncated to whole seconds, matching the wire precision, so a
// decoded token compares equal to the claims it was created from.
func (s *TokenService) NewClaims(userID uuid.UUID, email string) Claims {
	return Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl).Truncate(time.Second)),
		},
	}
}

// Create serializes and signs the claims with HS256.
func (s *TokenService) Create(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenEncoding, err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry (zero leeway) and returns the
// claims. It is a pure function of the token, the key and the clock.
func (s *TokenService) Decode(tokenStr string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenDecoding
		}
		return s.key, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, ErrTokenDecoding
	}
	return claims, nil
}
