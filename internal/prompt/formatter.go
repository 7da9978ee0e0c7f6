package prompt

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

// FormatSegments renders segments as "HH:MM:SS - text" lines joined by "\n".
// Only Start is used, truncated to whole seconds. Order is preserved as given.
func FormatSegments(segments []domain.TranscriptSegment) string {
	if len(segments) == 0 {
		return ""
	}

	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = FormatTimestamp(seg.Start) + " - " + strings.TrimSpace(seg.Text)
	}
	return strings.Join(lines, "\n")
}

// FormatTimestamp renders an offset in seconds as HH:MM:SS.
// Negative offsets render as 00:00:00.
func FormatTimestamp(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
