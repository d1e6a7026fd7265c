// Package session persists the authentication token and cached profile
// between runs, the client-side equivalent of the browser's local storage.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mgfeed/internal/models"
	"mgfeed/internal/observability"
)

// Store reads and writes the session file. The lifecycle is set at sign-in
// and cleared at sign-out; nothing refreshes or expires it proactively.
type Store struct {
	path string
}

// NewStore returns a store over the given file path. An empty path selects
// the default location under the user's config directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config dir: %w", err)
		}
		path = filepath.Join(dir, "mgfeed", "session.json")
	}
	return &Store{path: path}, nil
}

// Load reads the stored session. A missing file, an unreadable file, or a
// session missing either half all yield nil: "not signed in" rather than an
// error, matching how the browser treats absent local storage.
func (s *Store) Load() *models.Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			observability.GlobalLogger.Warn("session file unreadable", "path", s.path, "error", err.Error())
		}
		return nil
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		observability.GlobalLogger.Warn("session file corrupt", "path", s.path, "error", err.Error())
		return nil
	}
	if !sess.Authenticated() {
		return nil
	}

	// The token is opaque to the client; the server stays the source of
	// truth. But when it happens to be a JWT with a passed expiry we can at
	// least say so in the logs before the first rejected call.
	if expired, ok := tokenExpired(sess.Token); ok && expired {
		observability.GlobalLogger.Info("stored token already expired", "user_id", sess.User.ID)
	}

	return &sess
}

// Save writes the session atomically, creating the parent directory on first
// use.
func (s *Store) Save(sess *models.Session) error {
	if !sess.Authenticated() {
		return models.NewValidationError("refusing to store a session missing token or user")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the stored session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// tokenExpired inspects the token's exp claim without verifying the
// signature. The second result is false when the token is not a parseable
// JWT or carries no expiry.
func tokenExpired(token string) (expired, ok bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, false
	}
	return exp.Before(time.Now()), true
}
