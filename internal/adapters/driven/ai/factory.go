package ai

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

// Ensure Factory implements LLMClientFactory
var _ driven.LLMClientFactory = (*Factory)(nil)

// Factory creates LLM clients from provider credentials
type Factory struct {
	timeout time.Duration
}

// NewFactory creates a new LLM client factory.
// timeout is the per-call deadline of each client's transport; zero or
// negative leaves calls unbounded, ending only on context cancellation.
func NewFactory(timeout time.Duration) *Factory {
	if timeout < 0 {
		timeout = 0
	}
	return &Factory{timeout: timeout}
}

// NewClient creates a client bound to apiKey and baseURL.
// Each client owns its transport so Close only drops its own connections.
func (f *Factory) NewClient(apiKey, baseURL string) (driven.LLMClient, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%w: base url %q", domain.ErrInvalidInput, baseURL)
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	client := &http.Client{
		Timeout:   f.timeout,
		Transport: transport,
	}
	return NewOpenAICompatible(strings.TrimSpace(apiKey), baseURL, client), nil
}
