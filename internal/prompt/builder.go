package prompt

import (
	"fmt"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

// InstructionRenderer turns the request fields into the instruction text
type InstructionRenderer func(fields InstructionFields) (string, error)

// Builder assembles the multimodal user message for a note request
type Builder struct {
	render InstructionRenderer
}

// NewBuilder creates a builder using the default instruction template
func NewBuilder() *Builder {
	return &Builder{render: RenderInstruction}
}

// NewBuilderWithRenderer creates a builder with a custom instruction renderer
func NewBuilderWithRenderer(render InstructionRenderer) *Builder {
	if render == nil {
		render = RenderInstruction
	}
	return &Builder{render: render}
}

// Build returns a single user message: one text part followed by one image
// part per ImageURLs entry. Images are included whenever ImageURLs is
// non-empty; the Screenshot and Link flags only steer the instruction text.
func (b *Builder) Build(req *domain.NoteRequest) (domain.ChatMessage, error) {
	fields := InstructionFields{
		Title:       req.Title,
		Tags:        req.Tags,
		Style:       req.Style,
		Extras:      req.Extras,
		SegmentText: FormatSegments(req.Segments),
		TOC:         req.HasFormat(domain.NoteFormatTOC),
		Link:        req.Link || req.HasFormat(domain.NoteFormatLink),
		Screenshot:  req.Screenshot || req.HasFormat(domain.NoteFormatScreenshot),
		Summary:     req.HasFormat(domain.NoteFormatSummary),
	}

	text, err := b.render(fields)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("render instruction: %w", err)
	}

	content := make([]domain.ContentPart, 0, 1+len(req.ImageURLs))
	content = append(content, domain.TextPart(text))
	for _, url := range req.ImageURLs {
		content = append(content, domain.ImagePart(url))
	}

	return domain.ChatMessage{
		Role:    domain.ChatRoleUser,
		Content: content,
	}, nil
}
