// Package common holds the shared state machine values, messages, and styles
// used across the terminal views.
package common

import (
	"context"

	"github.com/charmbracelet/lipgloss"

	"mgfeed/internal/api"
	"mgfeed/internal/models"
)

// SessionState selects which view owns the screen.
type SessionState int

const (
	SignInView SessionState = iota
	FeedView
	ComposeView
)

// API is the surface of the REST client the views consume. It exists so view
// tests can substitute function-field stubs for the HTTP client.
type API interface {
	SignIn(ctx context.Context, in api.SignInInput) (*models.Session, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, postID int) (*models.Post, error)
	React(ctx context.Context, postID int, action models.Reaction, userID int) (*models.Counters, error)
	ListComments(ctx context.Context, postID int) ([]models.Comment, error)
	AddComment(ctx context.Context, postID, userID int, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, token string, commentID int) error
	CreatePost(ctx context.Context, token string, in api.CreatePostInput) (*models.Post, error)
	DeletePost(ctx context.Context, token string, postID int) error
}

// ToastLevel grades a transient status-line notification.
type ToastLevel int

const (
	ToastSuccess ToastLevel = iota
	ToastWarn
	ToastError
)

// ToastMsg surfaces a transient, non-blocking notification on the root
// status line.
type ToastMsg struct {
	Level ToastLevel
	Text  string
}

// Toast builds a toast command-free message for immediate return from Update.
func Toast(level ToastLevel, text string) ToastMsg {
	return ToastMsg{Level: level, Text: text}
}

// SignedInMsg reports a stored, authenticated session.
type SignedInMsg struct {
	Session *models.Session
}

// SignedOutMsg requests local sign-out: clear storage and view state. No API
// call is involved.
type SignedOutMsg struct{}

// SessionExpiredMsg is raised whenever any authorized call path receives the
// session-invalid signal. The root model applies the configured expiry
// policy; individual views never decide this themselves.
type SessionExpiredMsg struct{}

// PostCreatedMsg carries a freshly created post for local prepending into
// the feed.
type PostCreatedMsg struct {
	Post models.Post
}

// PostDeletedMsg removes a post from the local feed after a successful
// delete call.
type PostDeletedMsg struct {
	PostID int
}

// Styles shared by the views.
var (
	AccentColor = lipgloss.Color("205")
	FaintColor  = lipgloss.Color("241")
	ErrorColor  = lipgloss.Color("196")
	WarnColor   = lipgloss.Color("214")
	OKColor     = lipgloss.Color("76")

	TitleStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	FaintStyle = lipgloss.NewStyle().
			Foreground(FaintColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	WarnStyle = lipgloss.NewStyle().
			Foreground(WarnColor)

	OKStyle = lipgloss.NewStyle().
		Foreground(OKColor)

	BoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(FaintColor).
			Padding(0, 1)

	FocusedBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(AccentColor).
			Padding(0, 1)
)
