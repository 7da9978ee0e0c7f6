package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

// AuthService issues and validates API tokens
type AuthService interface {
	// IssueToken signs a token for subject with role, valid for ttl
	IssueToken(ctx context.Context, subject string, role domain.Role, ttl time.Duration) (string, error)

	// ValidateToken validates a token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)
}
