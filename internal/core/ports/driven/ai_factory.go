package driven

// LLMClientFactory creates LLM clients from provider credentials
type LLMClientFactory interface {
	// NewClient creates a client bound to apiKey and baseURL
	NewClient(apiKey, baseURL string) (LLMClient, error)
}
