package domain

// ChatRole is the author of a chat message
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ContentPartType tags a multimodal content part
type ContentPartType string

const (
	ContentPartText     ContentPartType = "text"
	ContentPartImageURL ContentPartType = "image_url"
)

// ImageDetailAuto lets the endpoint pick the image resolution
const ImageDetailAuto = "auto"

// ContentPart is one element of a multimodal message
type ContentPart struct {
	Type     ContentPartType `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *ImageURL       `json:"image_url,omitempty"`
}

// ImageURL references an image for a vision-capable model
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// TextPart builds a text content part
func TextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartText, Text: text}
}

// ImagePart builds an image content part with the auto detail hint
func ImagePart(url string) ContentPart {
	return ContentPart{
		Type:     ContentPartImageURL,
		ImageURL: &ImageURL{URL: url, Detail: ImageDetailAuto},
	}
}

// ChatMessage is a provider-agnostic chat message.
// The wire shape is decided by the LLM client adapter.
type ChatMessage struct {
	Role    ChatRole      `json:"role"`
	Content []ContentPart `json:"content"`
}

// CompletionRequest is a single chat completion call
type CompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// CompletionResult is the decoded completion response. It is never persisted.
type CompletionResult struct {
	ID      string             `json:"id,omitempty"`
	Model   string             `json:"model,omitempty"`
	Choices []CompletionChoice `json:"choices"`
}

// CompletionChoice is one alternative in a completion result
type CompletionChoice struct {
	Index        int                `json:"index"`
	Message      *CompletionMessage `json:"message,omitempty"`
	FinishReason string             `json:"finish_reason,omitempty"`
}

// CompletionMessage is the assistant message of a choice. Content may be absent.
type CompletionMessage struct {
	Role    ChatRole `json:"role,omitempty"`
	Content *string  `json:"content,omitempty"`
}
