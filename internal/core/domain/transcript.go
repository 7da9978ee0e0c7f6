package domain

// TranscriptSegment is one timed unit of transcript text.
// Start and End are offsets in seconds from the beginning of the media.
type TranscriptSegment struct {
	Start float64  `json:"start"`
	End   *float64 `json:"end,omitempty"`
	Text  string   `json:"text"`
}

// NoteFormat selects an optional section of the generated note
type NoteFormat string

const (
	// NoteFormatTOC asks for a table of contents friendly heading structure
	NoteFormatTOC NoteFormat = "toc"
	// NoteFormatLink asks the model to emit Content-mm:ss time markers
	NoteFormatLink NoteFormat = "link"
	// NoteFormatScreenshot asks the model to emit screenshot placeholders
	NoteFormatScreenshot NoteFormat = "screenshot"
	// NoteFormatSummary asks for a closing AI summary section
	NoteFormatSummary NoteFormat = "summary"
)

// NoteRequest carries everything needed to synthesize one note.
// It is built per call and never persisted by the core.
type NoteRequest struct {
	Segments   []TranscriptSegment `json:"segments"`
	Title      string              `json:"title"`
	Tags       []string            `json:"tags,omitempty"`
	Format     []NoteFormat        `json:"format,omitempty"`
	Style      string              `json:"style,omitempty"`
	Extras     string              `json:"extras,omitempty"`
	Screenshot bool                `json:"screenshot"`
	Link       bool                `json:"link"`
	ImageURLs  []string            `json:"image_urls,omitempty"`
}

// HasFormat reports whether f was requested
func (r *NoteRequest) HasFormat(f NoteFormat) bool {
	for _, have := range r.Format {
		if have == f {
			return true
		}
	}
	return false
}

// NoteDocument is the output of the synthesis pipeline
type NoteDocument struct {
	Body string `json:"body"`
	TOC  string `json:"toc"`
}
