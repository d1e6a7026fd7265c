package models

import "strconv"

// Comment is a comment as returned by the API. Author is a display field but
// historical payloads stored a user identifier in it, so ownership checks
// consult both it and UserID.
type Comment struct {
	ID           int    `json:"comment_id"`
	PostID       int    `json:"post_id"`
	UserID       int    `json:"user_id"`
	Content      string `json:"content"`
	Author       string `json:"author,omitempty"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

// CanDelete reports whether the viewer may delete this comment: the viewer's
// identifier must match either the comment's user_id or its author field.
// The two fields are deliberately kept as alternatives; they reflect two
// historical data shapes and the server accepts deletes for both.
func (c Comment) CanDelete(viewerID int) bool {
	return viewerID == c.UserID || c.Author == strconv.Itoa(viewerID)
}
