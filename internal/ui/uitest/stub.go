// Package uitest provides stubs shared by the view tests.
package uitest

import (
	"context"

	"mgfeed/internal/api"
	"mgfeed/internal/models"
)

// StubAPI is a function-field stub of the API surface the views consume.
// Unset fields answer with zero values.
type StubAPI struct {
	SignInFn        func(context.Context, api.SignInInput) (*models.Session, error)
	ListPostsFn     func(context.Context) ([]models.Post, error)
	GetPostFn       func(context.Context, int) (*models.Post, error)
	ReactFn         func(context.Context, int, models.Reaction, int) (*models.Counters, error)
	ListCommentsFn  func(context.Context, int) ([]models.Comment, error)
	AddCommentFn    func(context.Context, int, int, string) (*models.Comment, error)
	DeleteCommentFn func(context.Context, string, int) error
	CreatePostFn    func(context.Context, string, api.CreatePostInput) (*models.Post, error)
	DeletePostFn    func(context.Context, string, int) error
}

func (s *StubAPI) SignIn(ctx context.Context, in api.SignInInput) (*models.Session, error) {
	if s.SignInFn == nil {
		return nil, nil
	}
	return s.SignInFn(ctx, in)
}

func (s *StubAPI) ListPosts(ctx context.Context) ([]models.Post, error) {
	if s.ListPostsFn == nil {
		return nil, nil
	}
	return s.ListPostsFn(ctx)
}

func (s *StubAPI) GetPost(ctx context.Context, postID int) (*models.Post, error) {
	if s.GetPostFn == nil {
		return &models.Post{ID: postID}, nil
	}
	return s.GetPostFn(ctx, postID)
}

func (s *StubAPI) React(ctx context.Context, postID int, action models.Reaction, userID int) (*models.Counters, error) {
	if s.ReactFn == nil {
		return &models.Counters{}, nil
	}
	return s.ReactFn(ctx, postID, action, userID)
}

func (s *StubAPI) ListComments(ctx context.Context, postID int) ([]models.Comment, error) {
	if s.ListCommentsFn == nil {
		return nil, nil
	}
	return s.ListCommentsFn(ctx, postID)
}

func (s *StubAPI) AddComment(ctx context.Context, postID, userID int, content string) (*models.Comment, error) {
	if s.AddCommentFn == nil {
		return &models.Comment{PostID: postID, UserID: userID, Content: content}, nil
	}
	return s.AddCommentFn(ctx, postID, userID, content)
}

func (s *StubAPI) DeleteComment(ctx context.Context, token string, commentID int) error {
	if s.DeleteCommentFn == nil {
		return nil
	}
	return s.DeleteCommentFn(ctx, token, commentID)
}

func (s *StubAPI) CreatePost(ctx context.Context, token string, in api.CreatePostInput) (*models.Post, error) {
	if s.CreatePostFn == nil {
		return &models.Post{Content: in.Content, UserID: in.UserID}, nil
	}
	return s.CreatePostFn(ctx, token, in)
}

func (s *StubAPI) DeletePost(ctx context.Context, token string, postID int) error {
	if s.DeletePostFn == nil {
		return nil
	}
	return s.DeletePostFn(ctx, token, postID)
}
