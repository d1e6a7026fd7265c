// Package composer is the post-creation view: a content editor, optional
// media attachments by file path, and an emoji palette.
package composer

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mgfeed/internal/api"
	"mgfeed/internal/models"
	"mgfeed/internal/ui/common"
)

// Emoji palette offered in the composer, appended to the content at the
// caret position of the textarea.
var emojiPalette = []string{"😀", "😂", "😍", "🔥", "👍", "🎉", "😢", "😮", "❤️", "🤔"}

type focusField int

const (
	focusContent focusField = iota
	focusMedia
	focusEmoji
)

// Model is the composer view.
type Model struct {
	api    common.API
	viewer models.User
	token  string

	content textarea.Model
	media   textinput.Model
	focus   focusField
	emoji   int

	submitting bool
	width      int

	ctx    context.Context
	cancel context.CancelFunc
	active bool
}

// CreateResultMsg reports the outcome of a create-post call.
type CreateResultMsg struct {
	Post *models.Post
	Err  error
}

// New returns a composer for the signed-in viewer.
func New(apiClient common.API, viewer models.User, token string) Model {
	content := textarea.New()
	content.Placeholder = "What's on your mind?"
	content.CharLimit = 0
	content.SetHeight(4)
	content.Focus()

	media := textinput.New()
	media.Placeholder = "media paths, comma separated (optional)"
	media.Prompt = "📎 "

	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		api:     apiClient,
		viewer:  viewer,
		token:   token,
		content: content,
		media:   media,
		ctx:     ctx,
		cancel:  cancel,
		active:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Teardown cancels any in-flight create call.
func (m *Model) Teardown() {
	m.active = false
	if m.cancel != nil {
		m.cancel()
	}
}

// SetWidth adjusts the editor to the available columns.
func (m *Model) SetWidth(w int) {
	m.width = w
	if w > 6 {
		m.content.SetWidth(w - 4)
		m.media.Width = w - 8
	}
}

func (m Model) mediaPaths() []string {
	var paths []string
	for _, part := range strings.Split(m.media.Value(), ",") {
		if p := strings.TrimSpace(part); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func (m Model) submitCmd() tea.Cmd {
	ctx, apiClient, token := m.ctx, m.api, m.token
	in := api.CreatePostInput{
		Content:    strings.TrimSpace(m.content.Value()),
		UserID:     m.viewer.ID,
		MediaPaths: m.mediaPaths(),
	}
	return func() tea.Msg {
		post, err := apiClient.CreatePost(ctx, token, in)
		return CreateResultMsg{Post: post, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CreateResultMsg:
		if !m.active {
			return m, nil
		}
		m.submitting = false
		if msg.Err != nil {
			if models.IsSessionInvalid(msg.Err) {
				return m, func() tea.Msg { return common.SessionExpiredMsg{} }
			}
			return m, func() tea.Msg {
				return common.Toast(common.ToastError, "Failed to create post: "+msg.Err.Error())
			}
		}
		// Clear the form; the root model prepends the post into the feed.
		m.content.Reset()
		m.media.Reset()
		post := *msg.Post
		return m, tea.Batch(
			func() tea.Msg { return common.PostCreatedMsg{Post: post} },
			func() tea.Msg { return common.Toast(common.ToastSuccess, "Post created successfully!") },
		)

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			m.focus = (m.focus + 1) % 3
			m.applyFocus()
			return m, nil
		case "shift+tab":
			m.focus = (m.focus + 2) % 3
			m.applyFocus()
			return m, nil
		case "ctrl+s":
			return m.submit()
		}

		switch m.focus {
		case focusEmoji:
			switch msg.String() {
			case "left", "h":
				if m.emoji > 0 {
					m.emoji--
				}
				return m, nil
			case "right", "l":
				if m.emoji < len(emojiPalette)-1 {
					m.emoji++
				}
				return m, nil
			case "enter", " ":
				m.content.InsertString(emojiPalette[m.emoji])
				return m, nil
			}
			return m, nil
		case focusMedia:
			if msg.String() == "enter" {
				return m.submit()
			}
			var cmd tea.Cmd
			m.media, cmd = m.media.Update(msg)
			return m, cmd
		default:
			var cmd tea.Cmd
			m.content, cmd = m.content.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.content, cmd = m.content.Update(msg)
	return m, cmd
}

// submit validates and fires the create call. A post needs content or at
// least one attachment; an empty form never reaches the network.
func (m Model) submit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	if strings.TrimSpace(m.content.Value()) == "" && len(m.mediaPaths()) == 0 {
		return m, func() tea.Msg {
			return common.Toast(common.ToastWarn, "Please add some content or media to your post")
		}
	}
	m.submitting = true
	return m, m.submitCmd()
}

func (m *Model) applyFocus() {
	m.content.Blur()
	m.media.Blur()
	switch m.focus {
	case focusContent:
		m.content.Focus()
	case focusMedia:
		m.media.Focus()
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.TitleStyle.Render("New post"))
	b.WriteString("\n\n")
	b.WriteString(m.content.View())
	b.WriteString("\n")
	b.WriteString(m.media.View())
	b.WriteString("\n\n")

	var palette []string
	for i, e := range emojiPalette {
		if m.focus == focusEmoji && i == m.emoji {
			palette = append(palette, common.FocusedBoxStyle.Render(e))
		} else {
			palette = append(palette, " "+e+" ")
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, palette...))
	b.WriteString("\n\n")

	if m.submitting {
		b.WriteString(common.FaintStyle.Render("Posting..."))
	} else {
		b.WriteString(common.FaintStyle.Render("tab: next field • enter (emoji): insert • ctrl+s: post • esc: back"))
	}
	return b.String()
}
