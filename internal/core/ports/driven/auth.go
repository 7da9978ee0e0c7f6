package driven

import "github.com/custodia-labs/notegen/internal/core/domain"

// TokenAdapter handles API token cryptographic operations
type TokenAdapter interface {
	// GenerateToken signs claims into a token string
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ParseToken validates a token and extracts its claims
	ParseToken(token string) (*domain.TokenClaims, error)
}
