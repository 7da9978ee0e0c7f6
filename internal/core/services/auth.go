package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
	"github.com/custodia-labs/notegen/internal/core/ports/driving"
)

// DefaultTokenTTL is the lifetime of tokens issued without an explicit ttl
const DefaultTokenTTL = 24 * time.Hour

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the AuthService interface.
// Tokens are stateless: there is no session store to consult.
type authService struct {
	tokens driven.TokenAdapter
}

// NewAuthService creates a new AuthService
func NewAuthService(tokens driven.TokenAdapter) driving.AuthService {
	return &authService{tokens: tokens}
}

// IssueToken signs a token for subject with role
func (s *authService) IssueToken(ctx context.Context, subject string, role domain.Role, ttl time.Duration) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" || !role.IsValid() {
		return "", domain.ErrInvalidInput
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return s.tokens.GenerateToken(domain.NewTokenClaims(subject, role, ttl))
}

// ValidateToken validates a token and returns the auth context
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	if claims.IsExpired() {
		return nil, domain.ErrTokenExpired
	}
	if !claims.Role.IsValid() {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.AuthContext{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}
