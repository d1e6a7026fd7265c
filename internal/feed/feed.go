// Package feed builds the feed view-model: raw posts from the API are
// normalized once, at load, into everything a post card renders.
package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"mgfeed/internal/models"
)

// Fallback display strings for posts whose denormalized author fields are
// absent.
const (
	unknownAuthor = "Unknown Author"
	noPseudo      = "No Pseudo"
	unknownDate   = "Unknown Date"
)

// Item is one normalized post card: the post itself plus the derived fields
// the card renders without further computation.
type Item struct {
	Post         models.Post
	Media        []models.MediaItem
	AuthorName   string
	AuthorPseudo string
	AuthorPhoto  string
	DateLabel    string
}

// Normalizer resolves relative media paths against the static-asset origin
// and fills author fallbacks. One instance is shared by every view that
// touches a raw media path, so classification and URL resolution cannot
// diverge between them.
type Normalizer struct {
	staticOrigin  string
	defaultAvatar string
}

// NewNormalizer returns a normalizer for the given static-asset origin.
// defaultAvatar is the server-relative path used when an author has no
// profile photo.
func NewNormalizer(staticOrigin, defaultAvatar string) Normalizer {
	return Normalizer{staticOrigin: staticOrigin, defaultAvatar: defaultAvatar}
}

// Build normalizes a full post collection in feed order. A post whose media
// field cannot be parsed fails the whole build; the feed renders its error
// state rather than a partial list.
func (n Normalizer) Build(posts []models.Post) ([]Item, error) {
	items := make([]Item, 0, len(posts))
	for _, p := range posts {
		item, err := n.Item(p)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Item normalizes one post.
func (n Normalizer) Item(p models.Post) (Item, error) {
	media, err := n.expandMedia(p)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		Post:         p,
		Media:        media,
		AuthorName:   p.Name,
		AuthorPseudo: p.Pseudo,
		AuthorPhoto:  n.AvatarURL(p.ProfilePhoto),
		DateLabel:    FormatDate(p.CreatedAt),
	}
	if item.AuthorName == "" {
		item.AuthorName = unknownAuthor
	}
	if item.AuthorPseudo == "" {
		item.AuthorPseudo = noPseudo
	}
	return item, nil
}

// expandMedia splits the post's serialized path list into classified items.
// IDs combine the post identifier with the item's position.
func (n Normalizer) expandMedia(p models.Post) ([]models.MediaItem, error) {
	if p.Media == "" {
		return nil, nil
	}

	var paths []string
	if err := json.Unmarshal([]byte(p.Media), &paths); err != nil {
		return nil, models.NewDecodeError("Unexpected response format", err)
	}

	items := make([]models.MediaItem, 0, len(paths))
	for i, path := range paths {
		items = append(items, models.MediaItem{
			ID:   fmt.Sprintf("%d-%d", p.ID, i),
			URL:  n.ResolveURL(path),
			Type: models.ClassifyMedia(path),
		})
	}
	return items, nil
}

// ResolveURL prefixes a server-relative path with the static-asset origin.
func (n Normalizer) ResolveURL(path string) string {
	return n.staticOrigin + path
}

// AvatarURL resolves a profile photo path, falling back to the default
// avatar when the author has none.
func (n Normalizer) AvatarURL(path string) string {
	if path == "" {
		path = n.defaultAvatar
	}
	return n.ResolveURL(path)
}

// createdAtLayouts are the timestamp shapes the API has been seen to emit.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders a creation timestamp as a short locale date, or
// "Unknown Date" when the field is absent or unreadable.
func FormatDate(createdAt string) string {
	if createdAt == "" {
		return unknownDate
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, createdAt); err == nil {
			return fmt.Sprintf("%d/%d/%d", t.Month(), t.Day(), t.Year())
		}
	}
	return unknownDate
}
