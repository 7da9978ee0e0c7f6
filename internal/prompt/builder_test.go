package prompt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

func TestBuilder_Build_TextOnly(t *testing.T) {
	req := &domain.NoteRequest{
		Title:    "Go Concurrency",
		Tags:     []string{"go", "channels"},
		Segments: []domain.TranscriptSegment{{Start: 1, Text: "goroutines are cheap"}},
	}

	msg, err := NewBuilder().Build(req)
	require.NoError(t, err)

	assert.Equal(t, domain.ChatRoleUser, msg.Role)
	require.Len(t, msg.Content, 1)
	assert.Equal(t, domain.ContentPartText, msg.Content[0].Type)
	assert.Contains(t, msg.Content[0].Text, "Go Concurrency")
	assert.Contains(t, msg.Content[0].Text, "go, channels")
	assert.Contains(t, msg.Content[0].Text, "00:00:01 - goroutines are cheap")
}

func TestBuilder_Build_ImagesFollowText(t *testing.T) {
	req := &domain.NoteRequest{
		Title:      "Slides",
		Screenshot: false,
		ImageURLs:  []string{"https://img/1.jpg", "data:image/png;base64,AAAA"},
	}

	msg, err := NewBuilder().Build(req)
	require.NoError(t, err)

	require.Len(t, msg.Content, 3)
	assert.Equal(t, domain.ContentPartText, msg.Content[0].Type)
	for i, url := range req.ImageURLs {
		part := msg.Content[i+1]
		assert.Equal(t, domain.ContentPartImageURL, part.Type)
		require.NotNil(t, part.ImageURL)
		assert.Equal(t, url, part.ImageURL.URL)
		assert.Equal(t, domain.ImageDetailAuto, part.ImageURL.Detail)
	}
}

func TestBuilder_Build_FlagsSteerInstruction(t *testing.T) {
	var seen InstructionFields
	b := NewBuilderWithRenderer(func(f InstructionFields) (string, error) {
		seen = f
		return "instruction", nil
	})

	_, err := b.Build(&domain.NoteRequest{
		Link:   true,
		Format: []domain.NoteFormat{domain.NoteFormatTOC, domain.NoteFormatSummary},
		Style:  "concise",
		Extras: "focus on examples",
	})
	require.NoError(t, err)

	assert.True(t, seen.Link)
	assert.True(t, seen.TOC)
	assert.True(t, seen.Summary)
	assert.False(t, seen.Screenshot)
	assert.Equal(t, "concise", seen.Style)
	assert.Equal(t, "focus on examples", seen.Extras)
}

func TestBuilder_Build_RenderError(t *testing.T) {
	b := NewBuilderWithRenderer(func(InstructionFields) (string, error) {
		return "", errors.New("boom")
	})
	_, err := b.Build(&domain.NoteRequest{})
	assert.Error(t, err)
}

func TestRenderInstruction_Sections(t *testing.T) {
	out, err := RenderInstruction(InstructionFields{
		Title:       "T",
		SegmentText: "00:00:00 - hi",
		Link:        true,
		Screenshot:  true,
		Summary:     true,
		Extras:      "extra words",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "*Content-[mm:ss]*")
	assert.Contains(t, out, "*Screenshot-[mm:ss]*")
	assert.Contains(t, out, "## AI Summary")
	assert.Contains(t, out, "extra words")
	assert.Contains(t, out, "00:00:00 - hi")

	plain, err := RenderInstruction(InstructionFields{Title: "T"})
	require.NoError(t, err)
	assert.NotContains(t, plain, "Content-[mm:ss]")
	assert.NotContains(t, plain, "Tags:")
}
