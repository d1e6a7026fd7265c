package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"mgfeed/internal/models"
)

// ListComments fetches a post's comment list. The feed never fetches this
// eagerly; cards call it each time their comments panel is opened.
func (c *Client) ListComments(ctx context.Context, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	path := fmt.Sprintf("/posts/%d/comments", postID)
	if err := c.getJSON(ctx, path, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a new comment and returns the server's comment object,
// which the card appends to its in-memory list as-is.
func (c *Client) AddComment(ctx context.Context, postID, userID int, content string) (*models.Comment, error) {
	payload := map[string]any{
		"content": content,
		"user_id": userID,
	}
	var comment models.Comment
	path := fmt.Sprintf("/posts/%d/comments", postID)
	if err := c.sendJSON(ctx, http.MethodPost, path, payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment, bearer-authorized.
func (c *Client) DeleteComment(ctx context.Context, token string, commentID int) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/comments/"+strconv.Itoa(commentID), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	_, _, err = c.do(ctx, req)
	return err
}
