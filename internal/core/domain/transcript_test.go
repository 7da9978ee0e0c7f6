package domain

import "testing"

func TestNoteRequestHasFormat(t *testing.T) {
	req := &NoteRequest{Format: []NoteFormat{NoteFormatTOC, NoteFormatLink}}

	if !req.HasFormat(NoteFormatLink) {
		t.Error("expected link format")
	}
	if req.HasFormat(NoteFormatSummary) {
		t.Error("summary format was not requested")
	}
}

func TestContentParts(t *testing.T) {
	text := TextPart("hello")
	if text.Type != ContentPartText || text.Text != "hello" || text.ImageURL != nil {
		t.Errorf("unexpected text part: %+v", text)
	}

	img := ImagePart("https://img.example.com/1.jpg")
	if img.Type != ContentPartImageURL {
		t.Errorf("unexpected type %s", img.Type)
	}
	if img.ImageURL == nil || img.ImageURL.Detail != ImageDetailAuto {
		t.Errorf("image part should carry detail=auto: %+v", img.ImageURL)
	}
}
