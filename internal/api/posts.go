package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mgfeed/internal/models"
)

// ListPosts fetches the full post collection. The feed is loaded exactly
// once per mount; there is no pagination or re-fetch on interaction. A
// response that does not declare a JSON content type is a bad response
// shape before any decoding is attempted.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/posts", nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	body, header, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(header.Get("Content-Type"), "application/json") {
		return nil, models.NewDecodeError("Unexpected response format", nil)
	}

	var posts []models.Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, models.NewDecodeError("Unexpected response format", err)
	}
	return posts, nil
}

// GetPost fetches one post's interaction counters by identifier.
func (c *Client) GetPost(ctx context.Context, postID int) (*models.Post, error) {
	var post models.Post
	if err := c.getJSON(ctx, "/posts/"+strconv.Itoa(postID), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// React applies one reaction to a post and returns the server's counters.
// The caller decides which counter to keep; see models.Counters.Apply.
func (c *Client) React(ctx context.Context, postID int, action models.Reaction, userID int) (*models.Counters, error) {
	if !action.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("unknown reaction %q", action))
	}
	payload := map[string]int{"user_id": userID}
	var counters models.Counters
	path := fmt.Sprintf("/posts/%d/%s", postID, action)
	if err := c.sendJSON(ctx, http.MethodPut, path, payload, &counters); err != nil {
		return nil, err
	}
	return &counters, nil
}

// CreatePostInput carries the composer form. MediaPaths are local files
// attached to the multipart request under the "media" field.
type CreatePostInput struct {
	Content    string
	UserID     int
	MediaPaths []string
}

// CreatePost submits a new post as multipart form data, bearer-authorized.
// The server echoes back the created post.
func (c *Client) CreatePost(ctx context.Context, token string, in CreatePostInput) (*models.Post, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("content", in.Content); err != nil {
		return nil, fmt.Errorf("encoding form: %w", err)
	}
	if err := w.WriteField("user_id", strconv.Itoa(in.UserID)); err != nil {
		return nil, fmt.Errorf("encoding form: %w", err)
	}
	for _, path := range in.MediaPaths {
		if err := attachFile(w, path); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encoding form: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/posts", &buf)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	body, _, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := json.Unmarshal(body, &post); err != nil {
		return nil, models.NewDecodeError("Unexpected response format", err)
	}
	return &post, nil
}

// DeletePost removes a post, bearer-authorized.
func (c *Client) DeletePost(ctx context.Context, token string, postID int) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/posts/"+strconv.Itoa(postID), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	_, _, err = c.do(ctx, req)
	return err
}

func attachFile(w *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return models.NewValidationError(fmt.Sprintf("cannot read media file %q", path))
	}
	defer f.Close()

	part, err := w.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("encoding form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading media file %q: %w", path, err)
	}
	return nil
}
