package api

import (
	"context"

	"mgfeed/internal/models"
)

// SignInInput carries the credential form.
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signInResponse is the declared shape of a sign-in success. Token and user
// are both required; a 200 missing either is not an authenticated session.
type signInResponse struct {
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

// SignIn exchanges credentials for a token and profile. Sign-out has no API
// counterpart; it only clears local state.
func (c *Client) SignIn(ctx context.Context, in SignInInput) (*models.Session, error) {
	var resp signInResponse
	if err := c.sendJSON(ctx, "POST", "/api/auth/signin", in, &resp); err != nil {
		return nil, err
	}

	sess := &models.Session{Token: resp.Token, User: resp.User}
	if !sess.Authenticated() {
		return nil, models.NewDecodeError("Authentication failed, please try again.", nil)
	}
	return sess, nil
}
