// Package models contains the data structures exchanged with the MG' API and
// the view-model types derived from them.
package models

// User is a profile as returned by the API. The client never mutates it
// except by re-fetching at sign-in.
type User struct {
	ID           int    `json:"user_id"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	Pseudo       string `json:"pseudo,omitempty"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// Session is the client-held proof of authentication: an opaque token plus
// the cached profile. Absence of either half means "not signed in".
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Authenticated reports whether both halves of the session are present.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}
