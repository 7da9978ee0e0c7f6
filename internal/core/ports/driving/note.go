package driving

import (
	"context"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

// NoteService synthesizes Markdown notes from transcripts
type NoteService interface {
	// Generate runs prompt assembly, one completion call, validation and
	// Markdown post-processing. Empty completions surface as ErrNoUsableContent.
	Generate(ctx context.Context, req GenerateNoteRequest) (*domain.NoteDocument, error)
}

// GenerateNoteRequest represents one note synthesis call
type GenerateNoteRequest struct {
	ProviderID  string             `json:"provider_id"`
	ModelName   string             `json:"model_name"`
	MediaID     string             `json:"media_id,omitempty"`
	Platform    string             `json:"platform,omitempty"`
	Temperature *float64           `json:"temperature,omitempty"`
	Note        domain.NoteRequest `json:"note"`
}

// Validate checks the required fields
func (r *GenerateNoteRequest) Validate() error {
	if r.ProviderID == "" || r.ModelName == "" {
		return domain.ErrInvalidInput
	}
	return nil
}
