package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	adapter := NewAdapter("test-secret")
	claims := domain.NewTokenClaims("ops", domain.RoleAdmin, time.Hour)

	token, err := adapter.GenerateToken(claims)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("expected a three-part JWT, got %q", token)
	}

	parsed, err := adapter.ParseToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if parsed.Subject != "ops" {
		t.Errorf("expected subject ops, got %s", parsed.Subject)
	}
	if parsed.Role != domain.RoleAdmin {
		t.Errorf("expected role admin, got %s", parsed.Role)
	}
	if parsed.ExpiresAt != claims.ExpiresAt {
		t.Errorf("expected exp %d, got %d", claims.ExpiresAt, parsed.ExpiresAt)
	}
	if parsed.IssuedAt != claims.IssuedAt {
		t.Errorf("expected iat %d, got %d", claims.IssuedAt, parsed.IssuedAt)
	}
}

func TestGenerateToken_UnknownRole(t *testing.T) {
	adapter := NewAdapter("test-secret")

	_, err := adapter.GenerateToken(domain.NewTokenClaims("ops", domain.Role("root"), time.Hour))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	adapter := NewAdapter("test-secret")

	token, err := adapter.GenerateToken(domain.NewTokenClaims("ops", domain.RoleMember, -time.Hour))
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, err = adapter.ParseToken(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	signer := NewAdapter("secret-a")
	verifier := NewAdapter("secret-b")

	token, _ := signer.GenerateToken(domain.NewTokenClaims("ops", domain.RoleMember, time.Hour))

	_, err := verifier.ParseToken(token)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	adapter := NewAdapter("test-secret")

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := adapter.ParseToken(token); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("token %q: expected ErrTokenInvalid, got %v", token, err)
		}
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	adapter := NewAdapter("test-secret")

	jc := jwtClaims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   "ops",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jc).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	if _, err := adapter.ParseToken(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for HS512, got %v", err)
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	adapter := NewAdapter("test-secret")

	jc := jwtClaims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "ops",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jc).SignedString([]byte("test-secret"))

	if _, err := adapter.ParseToken(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for foreign issuer, got %v", err)
	}
}
