package prompt

import (
	"strings"
	"text/template"
)

// InstructionFields feeds the instruction template
type InstructionFields struct {
	Title       string
	Tags        []string
	Style       string
	Extras      string
	SegmentText string

	TOC        bool
	Link       bool
	Screenshot bool
	Summary    bool
}

const instructionTemplate = `You are a note-taking assistant. Turn the transcript below into a well structured Markdown note.

Title: {{.Title}}
{{- if .Tags}}
Tags: {{join .Tags ", "}}
{{- end}}

Rules:
- Write in the language of the transcript.
- Use "##" for main sections and "###" for sub-sections. Do not use a level-1 heading.
- Keep every important fact, number and term; drop filler and repetition.
{{- if .Style}}
- Writing style: {{.Style}}.
{{- end}}
{{- if .TOC}}
- Keep section titles short so they work as table-of-contents entries.
{{- end}}
{{- if .Link}}
- After each section title and each key point, add a time marker of the form *Content-[mm:ss]* pointing at where it starts in the transcript.
{{- end}}
{{- if .Screenshot}}
- Where a visual would help, insert a placeholder of the form *Screenshot-[mm:ss]* on its own line.
{{- end}}
{{- if .Summary}}
- Finish with a "## AI Summary" section of three to five sentences.
{{- end}}
{{- if .Extras}}

Additional instructions:
{{.Extras}}
{{- end}}

Transcript (HH:MM:SS - text):
---
{{.SegmentText}}
---
`

var instructionTmpl = template.Must(template.New("instruction").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(instructionTemplate))

// RenderInstruction renders the natural-language instruction body
func RenderInstruction(fields InstructionFields) (string, error) {
	var sb strings.Builder
	if err := instructionTmpl.Execute(&sb, fields); err != nil {
		return "", err
	}
	return sb.String(), nil
}
