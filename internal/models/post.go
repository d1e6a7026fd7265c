package models

// Post is a post as returned by the API. Author display fields are
// denormalized onto the post by the server; Media is a serialized JSON list
// of relative paths that the feed layer expands into typed MediaItems.
type Post struct {
	ID           int    `json:"post_id"`
	UserID       int    `json:"user_id"`
	Content      string `json:"content"`
	Media        string `json:"media,omitempty"`
	Name         string `json:"name,omitempty"`
	Pseudo       string `json:"pseudo,omitempty"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	Counters
}

// Counters holds a post's interaction counts. Reaction responses replace
// these wholesale with the server's values; nothing is incremented locally.
type Counters struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
	Shares   int `json:"shares"`
	ThumbUps int `json:"thumb_ups"`
}

// DisplayTotal is the count shown above the reaction row. The rule is
// asymmetric on purpose: exactly one like shows the like count alone,
// anything else shows likes plus thumb-ups.
func (c Counters) DisplayTotal() int {
	if c.Likes == 1 {
		return c.Likes
	}
	return c.Likes + c.ThumbUps
}

// Apply copies, from the server's post-reaction counters, only the counter
// the given reaction acted on. The other counters keep their previous values
// even when the response disagrees with them.
func (c *Counters) Apply(r Reaction, resp Counters) {
	switch r {
	case ReactionLike:
		c.Likes = resp.Likes
	case ReactionDislike:
		c.Dislikes = resp.Dislikes
	case ReactionShare:
		c.Shares = resp.Shares
	case ReactionThumbUp:
		c.ThumbUps = resp.ThumbUps
	}
}

// Reaction is one of the four counter actions applied with a PUT. The wire
// values are the server's path segments.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
	ReactionShare   Reaction = "share"
	ReactionThumbUp Reaction = "thumbUp"
)

// Valid reports whether r is one of the four known reactions.
func (r Reaction) Valid() bool {
	switch r {
	case ReactionLike, ReactionDislike, ReactionShare, ReactionThumbUp:
		return true
	}
	return false
}
