package postprocessors

import (
	"regexp"
	"strconv"
	"strings"
)

// fallbackSlug names headings whose text slugs to nothing
const fallbackSlug = "section"

var (
	headingPattern = regexp.MustCompile(`^(#{2,6})\s+(.+)$`)

	// Decorations stripped from heading text before slugging
	markerDecoration = regexp.MustCompile(`\s*\*?Content-\[?\d{1,2}:\d{2}\]?\*?`)
	linkDecoration   = regexp.MustCompile(`\s*\[原片\s*@\s*\d{2}:\d{2}\]\([^)]+\)`)
	plainDecoration  = regexp.MustCompile(`\s*\(\d{2}:\d{2}\)`)

	// anchorSuffix matches an anchor previously appended by BuildTOC
	anchorSuffix = regexp.MustCompile(`\s*<a id="([^"]*)"></a>\s*$`)

	// \s is ASCII only; \p{Z} adds U+3000 and NBSP
	slugDisallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}-]`)
	whitespaceRun  = regexp.MustCompile(`[\s\p{Z}]+`)
)

// BuildTOC annotates every level 2-6 heading with an inline anchor and
// returns a Markdown bullet list of the level 2 and 3 headings.
//
// The anchor is appended after the heading text, which is left as is.
// Headings that already end in an anchor keep their id, so running
// BuildTOC on its own output changes nothing.
func BuildTOC(markdown string) (toc string, annotated string) {
	lines := strings.Split(markdown, "\n")
	entries := make([]string, 0)
	counts := make(map[string]int)

	for i, line := range lines {
		m := headingPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level := len(m[1])
		text := strings.TrimSpace(m[2])

		existingID := ""
		if am := anchorSuffix.FindStringSubmatch(text); am != nil {
			existingID = am[1]
			text = strings.TrimSpace(text[:len(text)-len(am[0])])
		}

		clean := CleanHeading(text)
		base := Slugify(clean)
		id := nextAnchor(counts, base)
		if existingID != "" {
			id = existingID
		} else {
			lines[i] = strings.TrimRight(line, " \t") + ` <a id="` + id + `"></a>`
		}

		switch level {
		case 2:
			entries = append(entries, "- ["+clean+"](#"+id+")")
		case 3:
			entries = append(entries, "  - ["+clean+"](#"+id+")")
		}
	}

	return strings.Join(entries, "\n"), strings.Join(lines, "\n")
}

// CleanHeading removes time markers and their rendered links from heading text
func CleanHeading(text string) string {
	text = markerDecoration.ReplaceAllString(text, "")
	text = linkDecoration.ReplaceAllString(text, "")
	text = plainDecoration.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Slugify keeps letters, digits, underscores, whitespace and hyphens,
// turns whitespace runs into a hyphen and lowercases the result.
func Slugify(text string) string {
	slug := slugDisallowed.ReplaceAllString(text, "")
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = strings.ToLower(slug)
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// nextAnchor returns base on first use and base-N on the Nth collision
func nextAnchor(counts map[string]int, base string) string {
	n, seen := counts[base]
	if !seen {
		counts[base] = 0
		return base
	}
	n++
	counts[base] = n
	return base + "-" + strconv.Itoa(n)
}
