package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const defaultJWTTTL = 5 * time.Minute

// JWTTokenSource mints HS256 tokens signed with a shared key. Wrap it in
// oauth2.ReuseTokenSource so a token is reused until it nears expiry.
type JWTTokenSource struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTTokenSource creates a JWTTokenSource.
func NewJWTTokenSource(config JWTConfig) *JWTTokenSource {
	if config.TTL <= 0 {
		config.TTL = defaultJWTTTL
	}
	return &JWTTokenSource{config: config, now: time.Now}
}

// Token signs a fresh token.
func (s *JWTTokenSource) Token() (*oauth2.Token, error) {
	now := s.now()
	expiry := now.Add(s.config.TTL)

	claims := jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   s.config.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
		ID:        uuid.NewString(),
	}
	if s.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.config.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Key))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	return &oauth2.Token{AccessToken: signed, TokenType: "Bearer", Expiry: expiry}, nil
}
