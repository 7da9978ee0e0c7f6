package domain

import (
	"strings"
	"time"
)

// ProviderType distinguishes seeded providers from user-created ones
type ProviderType string

const (
	// ProviderTypeBuiltIn marks providers seeded by the system. They cannot be deleted.
	ProviderTypeBuiltIn ProviderType = "built-in"
	// ProviderTypeCustom marks providers created by users
	ProviderTypeCustom ProviderType = "custom"
)

// DefaultProviderLogo is used when a provider is saved without a logo
const DefaultProviderLogo = "custom"

// Provider is a configured OpenAI-compatible LLM endpoint
type Provider struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Logo      string       `json:"logo"`
	Type      ProviderType `json:"type"`
	APIKey    string       `json:"api_key"`
	BaseURL   string       `json:"base_url"`
	Enabled   bool         `json:"enabled"`
	CreatedAt time.Time    `json:"created_at"`
}

// IsBuiltIn reports whether the provider was seeded by the system
func (p *Provider) IsBuiltIn() bool {
	return p.Type == ProviderTypeBuiltIn
}

// HasCredential reports whether an API key is set
func (p *Provider) HasCredential() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// Masked returns a copy safe for display. The stored value is never touched.
func (p *Provider) Masked() *Provider {
	cp := *p
	cp.APIKey = MaskKey(p.APIKey)
	return &cp
}

// ProviderUpdate is a partial provider record. Nil fields are left untouched.
// It carries no ID, so an update never rewrites the id.
type ProviderUpdate struct {
	Name    *string       `json:"name,omitempty"`
	Logo    *string       `json:"logo,omitempty"`
	Type    *ProviderType `json:"type,omitempty"`
	APIKey  *string       `json:"api_key,omitempty"`
	BaseURL *string       `json:"base_url,omitempty"`
	Enabled *bool         `json:"enabled,omitempty"`
}

// IsEmpty reports whether no field is set
func (u ProviderUpdate) IsEmpty() bool {
	return u.Name == nil && u.Logo == nil && u.Type == nil &&
		u.APIKey == nil && u.BaseURL == nil && u.Enabled == nil
}

// Apply merges the non-nil fields into p
func (u ProviderUpdate) Apply(p *Provider) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Logo != nil {
		p.Logo = *u.Logo
	}
	if u.Type != nil {
		p.Type = *u.Type
	}
	if u.APIKey != nil {
		p.APIKey = *u.APIKey
	}
	if u.BaseURL != nil {
		p.BaseURL = *u.BaseURL
	}
	if u.Enabled != nil {
		p.Enabled = *u.Enabled
	}
}

// Model is a model name registered under a provider.
// (ProviderID, ModelName) is unique.
type Model struct {
	ID         int64     `json:"id"`
	ProviderID string    `json:"provider_id"`
	ModelName  string    `json:"model_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// ModelDescriptor is one normalized entry of a remote model listing
type ModelDescriptor struct {
	ID string `json:"id"`
}

// MaskKey hides the middle of a secret for display.
// Keys shorter than 8 characters are fully starred.
func MaskKey(key string) string {
	runes := []rune(key)
	if len(runes) < 8 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:4]) + strings.Repeat("*", len(runes)-8) + string(runes[len(runes)-4:])
}
