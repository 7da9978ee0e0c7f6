package domain

import "strings"

// Platform identifies the media host a note was generated from
type Platform string

const (
	PlatformBilibili Platform = "bilibili"
	PlatformYouTube  Platform = "youtube"
	PlatformDouyin   Platform = "douyin"
	PlatformUnknown  Platform = ""
)

// PlatformFamily maps a caller-supplied platform name to its family.
// Anything unrecognized maps to PlatformUnknown.
func PlatformFamily(name string) Platform {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasPrefix(n, "bilibili"):
		return PlatformBilibili
	case strings.HasPrefix(n, "youtube"):
		return PlatformYouTube
	case strings.HasPrefix(n, "douyin"):
		return PlatformDouyin
	default:
		return PlatformUnknown
	}
}

// MediaRef identifies the media a note was generated from.
// Link enables rewriting time markers into deep links.
type MediaRef struct {
	ID       string `json:"media_id"`
	Platform string `json:"platform"`
	Link     bool   `json:"link"`
}
