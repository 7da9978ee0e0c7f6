package driven

import "github.com/custodia-labs/notegen/internal/core/domain"

// MarkdownProcessor is one pass over a generated note.
// Processors form a pipeline: marker linking -> TOC/anchors.
type MarkdownProcessor interface {
	// Process rewrites the document in place
	Process(doc *domain.NoteDocument, media domain.MediaRef)

	// Name returns the processor name for logging/debugging
	Name() string

	// Order determines pipeline position (lower runs first)
	Order() int
}

// MarkdownPipeline chains Markdown processors in order
type MarkdownPipeline interface {
	// Process runs every processor over the raw Markdown
	Process(markdown string, media domain.MediaRef) *domain.NoteDocument

	// Add adds a processor to the pipeline.
	// Processors are sorted by Order() before processing.
	Add(processor MarkdownProcessor)

	// List returns processor names in order
	List() []string
}
