package domain

import (
	"errors"
	"testing"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrUnauthorized", ErrUnauthorized, "unauthorized"},
		{"ErrForbidden", ErrForbidden, "forbidden"},
		{"ErrTokenExpired", ErrTokenExpired, "token expired"},
		{"ErrTokenInvalid", ErrTokenInvalid, "token invalid"},
		{"ErrNoUsableContent", ErrNoUsableContent, "model returned no usable content"},
		{"ErrEmptyChoices", ErrEmptyChoices, "model returned no usable content: empty choices"},
		{"ErrEmptyContent", ErrEmptyContent, "model returned no usable content: empty message content"},
		{"ErrProviderNotFound", ErrProviderNotFound, "provider not found"},
		{"ErrBuiltInProtected", ErrBuiltInProtected, "built-in provider cannot be deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrForbidden,
		ErrTokenExpired,
		ErrTokenInvalid,
		ErrTransport,
		ErrEmptyChoices,
		ErrEmptyContent,
		ErrProviderNotFound,
		ErrMissingCredential,
		ErrBuiltInProtected,
		ErrConnectionTestFailed,
		ErrModelNameRequired,
		ErrModelExists,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestEmptyCompletionErrorsWrapNoUsableContent(t *testing.T) {
	if !errors.Is(ErrEmptyChoices, ErrNoUsableContent) {
		t.Error("ErrEmptyChoices should wrap ErrNoUsableContent")
	}
	if !errors.Is(ErrEmptyContent, ErrNoUsableContent) {
		t.Error("ErrEmptyContent should wrap ErrNoUsableContent")
	}
	if errors.Is(ErrTransport, ErrNoUsableContent) {
		t.Error("ErrTransport should not match ErrNoUsableContent")
	}
}
