package models

import "strings"

// MediaType classifies one post attachment by file extension.
type MediaType string

const (
	MediaImage   MediaType = "image"
	MediaVideo   MediaType = "video"
	MediaUnknown MediaType = "unknown"
)

var (
	imageExtensions = map[string]struct{}{
		"jpg": {}, "jpeg": {}, "png": {}, "gif": {},
	}
	videoExtensions = map[string]struct{}{
		"mp4": {}, "avi": {}, "mov": {}, "mkv": {},
	}
)

// ClassifyMedia maps a relative media path to its type by the extension after
// the last dot, case-insensitively. A path without an extension is unknown.
// The same classification must be applied everywhere a raw media path is
// encountered, so this is the only place the extension sets live.
func ClassifyMedia(path string) MediaType {
	ext := path
	if i := strings.LastIndex(path, "."); i >= 0 {
		ext = path[i+1:]
	}
	ext = strings.ToLower(ext)

	if _, ok := imageExtensions[ext]; ok {
		return MediaImage
	}
	if _, ok := videoExtensions[ext]; ok {
		return MediaVideo
	}
	return MediaUnknown
}

// MediaItem is one classified attachment derived from a post's raw media
// field. It is never persisted; the ID combines the post ID and the item's
// position in the list.
type MediaItem struct {
	ID   string    `json:"id"`
	URL  string    `json:"url"`
	Type MediaType `json:"type"`
}
