package postprocessors

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

var markerPattern = regexp.MustCompile(`\*?Content-(?:\[(\d{1,2}):(\d{2})\]|(\d{1,2}):(\d{2}))\*?`)

// LinkMarkers rewrites Content-mm:ss markers into deep links at that offset.
// Platforms without a link form, or an empty mediaID, get a plain (mm:ss).
func LinkMarkers(markdown, mediaID, platform string) string {
	family := domain.PlatformFamily(platform)

	return markerPattern.ReplaceAllStringFunc(markdown, func(match string) string {
		m := markerPattern.FindStringSubmatch(match)
		mm, ss := m[1], m[2]
		if mm == "" {
			mm, ss = m[3], m[4]
		}
		minutes, _ := strconv.Atoi(mm)
		seconds, _ := strconv.Atoi(ss)
		stamp := fmt.Sprintf("%02d:%02d", minutes, seconds)

		link, ok := DeepLink(family, mediaID, minutes*60+seconds)
		if !ok {
			return "(" + stamp + ")"
		}
		return " [原片 @ " + stamp + "](" + link + ")"
	})
}

// DeepLink builds the platform URL for mediaID at offset seconds
func DeepLink(platform domain.Platform, mediaID string, offset int) (string, bool) {
	if mediaID == "" {
		return "", false
	}

	switch platform {
	case domain.PlatformBilibili:
		return fmt.Sprintf("https://www.bilibili.com/video/%s?t=%d", url.PathEscape(mediaID), offset), true
	case domain.PlatformYouTube:
		return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", url.QueryEscape(mediaID), offset), true
	case domain.PlatformDouyin:
		return fmt.Sprintf("https://www.douyin.com/video/%s", url.PathEscape(mediaID)), true
	default:
		return "", false
	}
}
