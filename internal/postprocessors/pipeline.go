package postprocessors

import (
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MarkdownPipeline = (*Pipeline)(nil)

// Pipeline implements MarkdownPipeline.
// It chains Markdown processors in order over one note.
type Pipeline struct {
	mu         sync.RWMutex
	processors []driven.MarkdownProcessor
	sorted     bool
}

// NewPipeline creates a new Markdown pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		processors: make([]driven.MarkdownProcessor, 0),
	}
}

// Add adds a processor to the pipeline.
// Processors are sorted by Order() before processing.
func (p *Pipeline) Add(processor driven.MarkdownProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processors = append(p.processors, processor)
	p.sorted = false
}

// Process applies all processors in order to the raw Markdown.
func (p *Pipeline) Process(markdown string, media domain.MediaRef) *domain.NoteDocument {
	p.mu.Lock()
	if !p.sorted {
		sort.SliceStable(p.processors, func(i, j int) bool {
			return p.processors[i].Order() < p.processors[j].Order()
		})
		p.sorted = true
	}
	processors := make([]driven.MarkdownProcessor, len(p.processors))
	copy(processors, p.processors)
	p.mu.Unlock()

	doc := &domain.NoteDocument{Body: markdown}
	for _, proc := range processors {
		proc.Process(doc, media)
	}
	return doc
}

// List returns processor names in order.
func (p *Pipeline) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}

// DefaultPipeline creates a pipeline with the default processors.
func DefaultPipeline() *Pipeline {
	p := NewPipeline()
	p.Add(NewLineEndingNormalizer())
	p.Add(NewMarkerLinker())
	p.Add(NewTOCBuilder())
	return p
}

// LineEndingNormalizer converts CRLF and CR line endings to LF.
type LineEndingNormalizer struct{}

// Verify interface compliance
var _ driven.MarkdownProcessor = (*LineEndingNormalizer)(nil)

// NewLineEndingNormalizer creates a new line ending normalizer.
func NewLineEndingNormalizer() *LineEndingNormalizer {
	return &LineEndingNormalizer{}
}

// Process normalizes line endings in the body.
func (n *LineEndingNormalizer) Process(doc *domain.NoteDocument, _ domain.MediaRef) {
	body := strings.ReplaceAll(doc.Body, "\r\n", "\n")
	doc.Body = strings.ReplaceAll(body, "\r", "\n")
}

// Name returns the processor name.
func (n *LineEndingNormalizer) Name() string {
	return "line-ending-normalizer"
}

// Order returns 0 - runs first so later passes see LF lines.
func (n *LineEndingNormalizer) Order() int {
	return 0
}

// MarkerLinker rewrites time markers into deep links when the note asks for links.
type MarkerLinker struct{}

// Verify interface compliance
var _ driven.MarkdownProcessor = (*MarkerLinker)(nil)

// NewMarkerLinker creates a new marker linker.
func NewMarkerLinker() *MarkerLinker {
	return &MarkerLinker{}
}

// Process links markers in the body. It is a no-op unless media.Link is set.
func (l *MarkerLinker) Process(doc *domain.NoteDocument, media domain.MediaRef) {
	if !media.Link {
		return
	}
	doc.Body = LinkMarkers(doc.Body, media.ID, media.Platform)
}

// Name returns the processor name.
func (l *MarkerLinker) Name() string {
	return "marker-linker"
}

// Order returns 5.
func (l *MarkerLinker) Order() int {
	return 5
}

// TOCBuilder anchors headings and fills the document TOC.
type TOCBuilder struct{}

// Verify interface compliance
var _ driven.MarkdownProcessor = (*TOCBuilder)(nil)

// NewTOCBuilder creates a new TOC builder.
func NewTOCBuilder() *TOCBuilder {
	return &TOCBuilder{}
}

// Process annotates headings and sets doc.TOC.
func (b *TOCBuilder) Process(doc *domain.NoteDocument, _ domain.MediaRef) {
	doc.TOC, doc.Body = BuildTOC(doc.Body)
}

// Name returns the processor name.
func (b *TOCBuilder) Name() string {
	return "toc-builder"
}

// Order returns 10 - TOC is built last.
func (b *TOCBuilder) Order() int {
	return 10
}
