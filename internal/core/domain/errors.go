package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTransport indicates the LLM endpoint could not be reached or answered with an error status.
	// The core never retries these.
	ErrTransport = errors.New("llm transport failure")

	// ErrNoUsableContent is the caller-facing error for a completion that carried no note text
	ErrNoUsableContent = errors.New("model returned no usable content")

	// ErrEmptyChoices indicates a completion with no choices
	ErrEmptyChoices = fmt.Errorf("%w: empty choices", ErrNoUsableContent)

	// ErrEmptyContent indicates the first choice carried no message content
	ErrEmptyContent = fmt.Errorf("%w: empty message content", ErrNoUsableContent)

	// ErrProviderNotFound indicates the provider id does not resolve
	ErrProviderNotFound = errors.New("provider not found")

	// ErrMissingCredential indicates the provider has no API key configured
	ErrMissingCredential = errors.New("provider has no api key")

	// ErrBuiltInProtected indicates an attempt to delete a built-in provider
	ErrBuiltInProtected = errors.New("built-in provider cannot be deleted")

	// ErrConnectionTestFailed indicates the provider could not be reached during a connection test
	ErrConnectionTestFailed = errors.New("connection test failed")

	// ErrModelNameRequired indicates the provider cannot list models and no model name was given to probe with
	ErrModelNameRequired = errors.New("provider does not support model listing; add a model name and retry")

	// ErrModelExists indicates the (provider, model name) pair is already registered
	ErrModelExists = errors.New("model already exists")
)
