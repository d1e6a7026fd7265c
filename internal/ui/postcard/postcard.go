// Package postcard renders one post: content, media, counters, and the
// comment thread, with all per-post interaction handling.
package postcard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mgfeed/internal/feed"
	"mgfeed/internal/models"
	"mgfeed/internal/observability"
	"mgfeed/internal/ui/common"
)

// confirmTarget is what the blocking confirm prompt is about.
type confirmTarget int

const (
	confirmNone confirmTarget = iota
	confirmComment
	confirmPost
)

// Model is one post card. Cards update disjoint local state, so concurrent
// requests across cards need no synchronization; within a card, reactions
// are serialized by the in-flight guard.
type Model struct {
	api    common.API
	norm   feed.Normalizer
	item   feed.Item
	viewer models.User
	token  string

	counters models.Counters
	// inFlight serializes reaction clicks: a second click while a request is
	// outstanding is dropped, not queued.
	inFlight bool

	shown           bool
	comments        []models.Comment
	commentsLoading bool
	commentCursor   int
	input           textinput.Model
	inputFocused    bool

	confirm          confirmTarget
	confirmCommentID int

	focused bool
	width   int

	ctx    context.Context
	cancel context.CancelFunc
	active bool
}

// CountersMsg carries a card's initial counter fetch.
type CountersMsg struct {
	PostID   int
	Counters models.Counters
	Err      error
}

// ReactionResultMsg settles one reaction request.
type ReactionResultMsg struct {
	PostID   int
	Action   models.Reaction
	Counters *models.Counters
	Err      error
}

// CommentsMsg carries a lazily fetched comment list.
type CommentsMsg struct {
	PostID   int
	Comments []models.Comment
	Err      error
}

// CommentAddedMsg settles a comment submission.
type CommentAddedMsg struct {
	PostID  int
	Comment *models.Comment
	Err     error
}

// CommentDeletedMsg settles a comment deletion.
type CommentDeletedMsg struct {
	PostID    int
	CommentID int
	Err       error
}

// PostDeleteResultMsg settles a post deletion.
type PostDeleteResultMsg struct {
	PostID int
	Err    error
}

// New returns a card for one normalized feed item.
func New(apiClient common.API, norm feed.Normalizer, item feed.Item, viewer models.User, token string) Model {
	input := textinput.New()
	input.Placeholder = "Write a comment..."
	input.CharLimit = 500

	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		api:      apiClient,
		norm:     norm,
		item:     item,
		viewer:   viewer,
		token:    token,
		counters: item.Post.Counters,
		input:    input,
		ctx:      ctx,
		cancel:   cancel,
		active:   true,
	}
}

// Init fetches the card's counters; every card does this independently on
// mount.
func (m Model) Init() tea.Cmd {
	ctx, apiClient, postID := m.ctx, m.api, m.item.Post.ID
	return func() tea.Msg {
		post, err := apiClient.GetPost(ctx, postID)
		if err != nil {
			return CountersMsg{PostID: postID, Err: err}
		}
		return CountersMsg{PostID: postID, Counters: post.Counters}
	}
}

// Teardown cancels outstanding calls so late results cannot touch a defunct
// card.
func (m *Model) Teardown() {
	m.active = false
	m.cancel()
}

// PostID identifies the card for message routing.
func (m Model) PostID() int { return m.item.Post.ID }

// SetFocus marks the card as the keyboard target.
func (m *Model) SetFocus(focused bool) {
	m.focused = focused
	if !focused {
		m.inputFocused = false
		m.input.Blur()
	}
}

// SetWidth adjusts the render width.
func (m *Model) SetWidth(w int) { m.width = w }

func (m Model) reactCmd(action models.Reaction) tea.Cmd {
	ctx, apiClient, postID, userID := m.ctx, m.api, m.item.Post.ID, m.viewer.ID
	return func() tea.Msg {
		counters, err := apiClient.React(ctx, postID, action, userID)
		return ReactionResultMsg{PostID: postID, Action: action, Counters: counters, Err: err}
	}
}

func (m Model) fetchCommentsCmd() tea.Cmd {
	ctx, apiClient, postID := m.ctx, m.api, m.item.Post.ID
	return func() tea.Msg {
		comments, err := apiClient.ListComments(ctx, postID)
		return CommentsMsg{PostID: postID, Comments: comments, Err: err}
	}
}

func (m Model) addCommentCmd(content string) tea.Cmd {
	ctx, apiClient, postID, userID := m.ctx, m.api, m.item.Post.ID, m.viewer.ID
	return func() tea.Msg {
		comment, err := apiClient.AddComment(ctx, postID, userID, content)
		return CommentAddedMsg{PostID: postID, Comment: comment, Err: err}
	}
}

func (m Model) deleteCommentCmd(commentID int) tea.Cmd {
	ctx, apiClient, postID, token := m.ctx, m.api, m.item.Post.ID, m.token
	return func() tea.Msg {
		err := apiClient.DeleteComment(ctx, token, commentID)
		return CommentDeletedMsg{PostID: postID, CommentID: commentID, Err: err}
	}
}

func (m Model) deletePostCmd() tea.Cmd {
	ctx, apiClient, postID, token := m.ctx, m.api, m.item.Post.ID, m.token
	return func() tea.Msg {
		err := apiClient.DeletePost(ctx, token, postID)
		return PostDeleteResultMsg{PostID: postID, Err: err}
	}
}

// failureCmd routes an error either into the unified session-expired signal
// or a transient toast with the given fallback text.
func failureCmd(err error, fallback string) tea.Cmd {
	if models.IsSessionInvalid(err) {
		return func() tea.Msg { return common.SessionExpiredMsg{} }
	}
	text := fallback
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeAPI {
		text = appErr.Message
	}
	return func() tea.Msg { return common.Toast(common.ToastError, text) }
}

// Update handles the card's own result messages regardless of focus, and
// keyboard input only while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CountersMsg:
		if msg.PostID != m.item.Post.ID || !m.active {
			return m, nil
		}
		if msg.Err != nil {
			// Logged only; the card keeps rendering with whatever counters
			// it had.
			observability.GlobalLogger.Error("fetching post counters", "post_id", msg.PostID, "error", msg.Err.Error())
			return m, nil
		}
		m.counters = msg.Counters
		return m, nil

	case ReactionResultMsg:
		if msg.PostID != m.item.Post.ID || !m.active {
			return m, nil
		}
		// The guard is released no matter how the request settled.
		m.inFlight = false
		if msg.Err != nil {
			return m, failureCmd(msg.Err, "Unknown error")
		}
		m.counters.Apply(msg.Action, *msg.Counters)
		label := capitalize(string(msg.Action))
		return m, func() tea.Msg {
			return common.Toast(common.ToastSuccess, label+" updated successfully!")
		}

	case CommentsMsg:
		if msg.PostID != m.item.Post.ID || !m.active {
			return m, nil
		}
		m.commentsLoading = false
		if msg.Err != nil {
			observability.GlobalLogger.Error("fetching comments", "post_id", msg.PostID, "error", msg.Err.Error())
			return m, nil
		}
		m.comments = msg.Comments
		if m.commentCursor >= len(m.comments) {
			m.commentCursor = 0
		}
		return m, nil

	case CommentAddedMsg:
		if msg.PostID != m.item.Post.ID || !m.active {
			return m, nil
		}
		if msg.Err != nil {
			return m, failureCmd(msg.Err, "Failed to add comment.")
		}
		// Appended as the server returned it; no re-sort, no de-duplication.
		m.comments = append(m.comments, *msg.Comment)
		m.input.SetValue("")
		return m, func() tea.Msg {
			return common.Toast(common.ToastSuccess, "Comment added successfully!")
		}

	case CommentDeletedMsg:
		if msg.PostID != m.item.Post.ID || !m.active {
			return m, nil
		}
		if msg.Err != nil {
			// On failure the list is left unchanged.
			return m, failureCmd(msg.Err, "Error deleting comment")
		}
		kept := m.comments[:0:0]
		for _, c := range m.comments {
			if c.ID != msg.CommentID {
				kept = append(kept, c)
			}
		}
		m.comments = kept
		if m.commentCursor >= len(m.comments) && m.commentCursor > 0 {
			m.commentCursor = len(m.comments) - 1
		}
		return m, func() tea.Msg {
			return common.Toast(common.ToastSuccess, "Comment deleted successfully!")
		}

	case PostDeleteResultMsg:
		if msg.PostID != m.item.Post.ID || !m.active {
			return m, nil
		}
		if msg.Err != nil {
			return m, failureCmd(msg.Err, "An error occurred while deleting the post.")
		}
		postID := msg.PostID
		return m, tea.Batch(
			func() tea.Msg { return common.PostDeletedMsg{PostID: postID} },
			func() tea.Msg { return common.Toast(common.ToastSuccess, "Post deleted successfully.") },
		)

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// A confirm prompt blocks everything else on the card.
	if m.confirm != confirmNone {
		switch msg.String() {
		case "y", "Y", "enter":
			target, commentID := m.confirm, m.confirmCommentID
			m.confirm = confirmNone
			m.confirmCommentID = 0
			if target == confirmComment {
				return m, m.deleteCommentCmd(commentID)
			}
			return m, m.deletePostCmd()
		case "n", "N", "esc":
			m.confirm = confirmNone
			m.confirmCommentID = 0
			return m, nil
		}
		return m, nil
	}

	if m.inputFocused {
		switch msg.String() {
		case "enter":
			return m.submitComment()
		case "esc":
			m.inputFocused = false
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "l":
		return m.react(models.ReactionLike)
	case "d":
		return m.react(models.ReactionDislike)
	case "s":
		return m.react(models.ReactionShare)
	case "t":
		return m.react(models.ReactionThumbUp)
	case "c":
		return m.toggleComments()
	case "i":
		if m.shown {
			m.inputFocused = true
			return m, m.input.Focus()
		}
	case "up":
		if m.shown && m.commentCursor > 0 {
			m.commentCursor--
		}
		return m, nil
	case "down":
		if m.shown && m.commentCursor < len(m.comments)-1 {
			m.commentCursor++
		}
		return m, nil
	case "x":
		return m.confirmDeleteComment()
	case "X":
		m.confirm = confirmPost
		return m, nil
	}

	return m, nil
}

func (m Model) react(action models.Reaction) (Model, tea.Cmd) {
	if m.inFlight {
		// Silently ignored; no queueing.
		return m, nil
	}
	m.inFlight = true
	return m, m.reactCmd(action)
}

func (m Model) toggleComments() (Model, tea.Cmd) {
	if m.shown {
		m.shown = false
		m.inputFocused = false
		m.input.Blur()
		return m, nil
	}
	// Fetched lazily, and again on every open.
	m.shown = true
	m.commentsLoading = true
	return m, m.fetchCommentsCmd()
}

func (m Model) submitComment() (Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, func() tea.Msg {
			return common.Toast(common.ToastWarn, "Comment cannot be empty.")
		}
	}
	return m, m.addCommentCmd(content)
}

func (m Model) confirmDeleteComment() (Model, tea.Cmd) {
	if !m.shown || len(m.comments) == 0 {
		return m, nil
	}
	comment := m.comments[m.commentCursor]
	if !comment.CanDelete(m.viewer.ID) {
		// No affordance for comments the viewer does not own.
		return m, nil
	}
	m.confirm = confirmComment
	m.confirmCommentID = comment.ID
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("@%s  %s", m.item.AuthorPseudo, common.FaintStyle.Render(m.item.DateLabel))
	b.WriteString(common.TitleStyle.Render(m.item.AuthorName))
	b.WriteString("  ")
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(common.FaintStyle.Render(m.item.AuthorPhoto))
	b.WriteString("\n\n")

	if m.item.Post.Content != "" {
		b.WriteString(m.item.Post.Content)
		b.WriteString("\n")
	}

	for _, media := range m.item.Media {
		badge := common.FaintStyle.Render(fmt.Sprintf("[%s]", media.Type))
		b.WriteString(fmt.Sprintf("%s %s\n", badge, media.URL))
	}

	b.WriteString("\n")
	if total := m.counters.DisplayTotal(); total > 0 {
		b.WriteString(common.OKStyle.Render(fmt.Sprintf("♥ %d", total)))
		b.WriteString("\n")
	}

	icons := fmt.Sprintf(
		"(l)ike %d  (d)islike %d  (s)hare %d  (t)humb-up %d  (c)omments %s",
		m.counters.Likes, m.counters.Dislikes, m.counters.Shares, m.counters.ThumbUps,
		commentCountLabel(m.comments),
	)
	if m.inFlight {
		icons += "  " + common.FaintStyle.Render("…")
	}
	b.WriteString(icons)

	if m.shown {
		b.WriteString("\n\n")
		b.WriteString(m.viewComments())
	}

	if m.confirm != confirmNone {
		b.WriteString("\n\n")
		prompt := "Are you sure you want to delete this comment? (y/n)"
		if m.confirm == confirmPost {
			prompt = "Are you sure you want to delete this post? (y/n)"
		}
		b.WriteString(common.WarnStyle.Render(prompt))
	}

	style := common.BoxStyle
	if m.focused {
		style = common.FocusedBoxStyle
	}
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	return style.Render(b.String())
}

func (m Model) viewComments() string {
	var b strings.Builder

	if m.commentsLoading {
		b.WriteString(common.FaintStyle.Render("Loading comments..."))
		b.WriteString("\n")
	}

	for i, c := range m.comments {
		cursor := "  "
		if m.focused && i == m.commentCursor {
			cursor = common.TitleStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s  %s", cursor, common.TitleStyle.Render(c.Author), c.Content)
		if c.CanDelete(m.viewer.ID) {
			line += "  " + common.FaintStyle.Render("(x to delete)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.inputFocused {
		b.WriteString("\n")
		b.WriteString(common.FaintStyle.Render("enter: send • esc: done"))
	} else {
		b.WriteString("\n")
		b.WriteString(common.FaintStyle.Render("i: write a comment"))
	}
	return b.String()
}

func commentCountLabel(comments []models.Comment) string {
	if len(comments) == 0 {
		return ""
	}
	return fmt.Sprintf("%d", len(comments))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
