// Package feedview renders the post feed: one fetch on mount, then a static
// list of post cards that only changes through local mutation.
package feedview

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"mgfeed/internal/feed"
	"mgfeed/internal/models"
	"mgfeed/internal/ui/common"
	"mgfeed/internal/ui/postcard"
)

// Model is the feed view.
type Model struct {
	api    common.API
	norm   feed.Normalizer
	viewer models.User
	token  string

	cards   []postcard.Model
	cursor  int
	loading bool
	errText string

	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc
	active bool
}

// PostsLoadedMsg carries the single feed fetch.
type PostsLoadedMsg struct {
	Posts []models.Post
	Err   error
}

// New returns a feed view for the signed-in viewer.
func New(apiClient common.API, norm feed.Normalizer, viewer models.User, token string) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		api:     apiClient,
		norm:    norm,
		viewer:  viewer,
		token:   token,
		loading: true,
		ctx:     ctx,
		cancel:  cancel,
		active:  true,
	}
}

// Init performs the one post-collection fetch. There is no re-fetch on
// interaction and no pagination.
func (m Model) Init() tea.Cmd {
	ctx, apiClient := m.ctx, m.api
	return func() tea.Msg {
		posts, err := apiClient.ListPosts(ctx)
		return PostsLoadedMsg{Posts: posts, Err: err}
	}
}

// Teardown cancels the feed fetch and every card's outstanding calls.
func (m *Model) Teardown() {
	m.active = false
	if m.cancel != nil {
		m.cancel()
	}
	for i := range m.cards {
		m.cards[i].Teardown()
	}
}

// SetSize adjusts the render area.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	for i := range m.cards {
		m.cards[i].SetWidth(w)
	}
}

// Prepend inserts a freshly created post at the top of the list, the only
// way the feed grows after load. The returned command starts the new card's
// counter fetch.
func (m *Model) Prepend(post models.Post) tea.Cmd {
	item, err := m.norm.Item(post)
	if err != nil {
		// The post was created; only its media field confused us. Render it
		// without attachments rather than dropping it.
		item = feed.Item{Post: post, AuthorName: m.viewer.Name, AuthorPseudo: m.viewer.Pseudo}
	}
	card := postcard.New(m.api, m.norm, item, m.viewer, m.token)
	card.SetWidth(m.width)
	m.cards = append([]postcard.Model{card}, m.cards...)
	m.cursor = 0
	m.syncFocus()
	return m.cards[0].Init()
}

// Remove drops a deleted post from the list by identifier.
func (m *Model) Remove(postID int) {
	kept := m.cards[:0:0]
	for i := range m.cards {
		if m.cards[i].PostID() == postID {
			m.cards[i].Teardown()
			continue
		}
		kept = append(kept, m.cards[i])
	}
	m.cards = kept
	if m.cursor >= len(m.cards) && m.cursor > 0 {
		m.cursor = len(m.cards) - 1
	}
	m.syncFocus()
}

func (m *Model) syncFocus() {
	for i := range m.cards {
		m.cards[i].SetFocus(i == m.cursor)
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PostsLoadedMsg:
		if !m.active {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}

		items, err := m.norm.Build(msg.Posts)
		if err != nil {
			m.errText = err.Error()
			return m, nil
		}

		var cmds []tea.Cmd
		m.cards = make([]postcard.Model, 0, len(items))
		for _, item := range items {
			card := postcard.New(m.api, m.norm, item, m.viewer, m.token)
			card.SetWidth(m.width)
			m.cards = append(m.cards, card)
			cmds = append(cmds, card.Init())
		}
		m.cursor = 0
		m.syncFocus()
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "j":
			if m.cursor < len(m.cards)-1 {
				m.cursor++
				m.syncFocus()
			}
			return m, nil
		case "k":
			if m.cursor > 0 {
				m.cursor--
				m.syncFocus()
			}
			return m, nil
		}
		// Everything else belongs to the focused card.
		if m.cursor < len(m.cards) {
			var cmd tea.Cmd
			m.cards[m.cursor], cmd = m.cards[m.cursor].Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Result messages are relayed to every card; each card reacts only to
	// its own post identifier.
	var cmds []tea.Cmd
	for i := range m.cards {
		var cmd tea.Cmd
		m.cards[i], cmd = m.cards[i].Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return common.FaintStyle.Render("Loading posts...")
	}
	if m.errText != "" {
		return common.ErrorStyle.Render("Error loading posts: " + m.errText)
	}
	if len(m.cards) == 0 {
		return common.FaintStyle.Render("No posts available")
	}

	var b strings.Builder
	// Render from the focused card downward; the cards above stay reachable
	// with k.
	start := m.cursor
	if start > 0 {
		b.WriteString(common.FaintStyle.Render("↑ more posts"))
		b.WriteString("\n")
	}
	for i := start; i < len(m.cards); i++ {
		b.WriteString(m.cards[i].View())
		b.WriteString("\n")
	}
	return b.String()
}
