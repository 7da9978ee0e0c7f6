package domain

import (
	"testing"
)

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", ""},
		{"short", "abc", "***"},
		{"seven chars", "abcdefg", "*******"},
		{"exactly eight", "abcdefgh", "abcdefgh"},
		{"typical key", "sk-1234567890abcd", "sk-1*********abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskKey(tt.key); got != tt.want {
				t.Errorf("MaskKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestProviderMasked_DoesNotTouchOriginal(t *testing.T) {
	p := &Provider{ID: "p1", Name: "OpenAI", APIKey: "sk-1234567890abcd"}

	masked := p.Masked()

	if masked.APIKey != "sk-1*********abcd" {
		t.Errorf("masked key = %q", masked.APIKey)
	}
	if p.APIKey != "sk-1234567890abcd" {
		t.Errorf("original key modified: %q", p.APIKey)
	}
	if masked.ID != p.ID || masked.Name != p.Name {
		t.Error("masked copy should keep other fields")
	}
}

func TestProviderIsBuiltIn(t *testing.T) {
	if !(&Provider{Type: ProviderTypeBuiltIn}).IsBuiltIn() {
		t.Error("expected built-in provider")
	}
	if (&Provider{Type: ProviderTypeCustom}).IsBuiltIn() {
		t.Error("custom provider reported as built-in")
	}
}

func TestProviderHasCredential(t *testing.T) {
	if (&Provider{APIKey: "   "}).HasCredential() {
		t.Error("blank key should not count as a credential")
	}
	if !(&Provider{APIKey: "sk-x"}).HasCredential() {
		t.Error("expected credential")
	}
}

func TestProviderUpdate_Apply(t *testing.T) {
	p := &Provider{
		ID:      "p1",
		Name:    "Old",
		Logo:    "openai",
		Type:    ProviderTypeCustom,
		APIKey:  "old-key",
		BaseURL: "https://old.example.com/v1",
		Enabled: true,
	}

	name := "New"
	enabled := false
	upd := ProviderUpdate{Name: &name, Enabled: &enabled}
	upd.Apply(p)

	if p.Name != "New" {
		t.Errorf("Name = %q, want New", p.Name)
	}
	if p.Enabled {
		t.Error("Enabled should be false")
	}
	if p.APIKey != "old-key" || p.BaseURL != "https://old.example.com/v1" || p.Logo != "openai" {
		t.Error("nil fields must not overwrite existing values")
	}
	if p.ID != "p1" {
		t.Error("ID must never change")
	}
}

func TestProviderUpdate_IsEmpty(t *testing.T) {
	if !(ProviderUpdate{}).IsEmpty() {
		t.Error("zero update should be empty")
	}
	key := ""
	if (ProviderUpdate{APIKey: &key}).IsEmpty() {
		t.Error("update with explicit empty key is not empty")
	}
}
