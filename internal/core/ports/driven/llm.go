package driven

import (
	"context"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

// LLMClient talks to one OpenAI-compatible endpoint.
// Every call is a single blocking attempt; retries are the caller's concern.
// Implementations hold only their credentials and base URL and are safe for
// concurrent use as long as each call gets its own request.
type LLMClient interface {
	// Complete executes one chat completion call.
	// Transport and HTTP failures are returned wrapping domain.ErrTransport.
	Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResult, error)

	// ListModels lists the models the endpoint serves, normalized to {id}
	ListModels(ctx context.Context) ([]domain.ModelDescriptor, error)

	// Close releases idle connections held by the client
	Close() error
}
