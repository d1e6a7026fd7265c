// Package ui wires the views into the root program model: state switching,
// the toast status line, and the session lifecycle.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mgfeed/internal/config"
	"mgfeed/internal/feed"
	"mgfeed/internal/models"
	"mgfeed/internal/session"
	"mgfeed/internal/ui/common"
	"mgfeed/internal/ui/composer"
	"mgfeed/internal/ui/feedview"
	"mgfeed/internal/ui/header"
	"mgfeed/internal/ui/signin"
)

const toastDuration = 4 * time.Second

// toastExpiredMsg clears the status line when its timer fires. The sequence
// number ignores timers superseded by a newer toast.
type toastExpiredMsg struct{ seq int }

// MainModel is the root Bubble Tea model.
type MainModel struct {
	cfg   config.Config
	api   common.API
	store *session.Store
	norm  feed.Normalizer

	state   common.SessionState
	session *models.Session

	header   header.Model
	signin   signin.Model
	feed     feedview.Model
	composer composer.Model

	toast    *common.ToastMsg
	toastSeq int

	width  int
	height int
}

// NewMainModel builds the root model. With a stored, unexpired session the
// program opens on the feed; otherwise on sign-in.
func NewMainModel(cfg config.Config, apiClient common.API, store *session.Store, stored *models.Session) MainModel {
	m := MainModel{
		cfg:    cfg,
		api:    apiClient,
		store:  store,
		norm:   feed.NewNormalizer(cfg.StaticOrigin, cfg.DefaultAvatar),
		header: header.New(),
		signin: signin.New(apiClient, store),
	}
	if stored != nil && stored.Authenticated() {
		m.session = stored
		m.header.SetViewer(stored.User)
		m.state = common.FeedView
		m.feed = feedview.New(apiClient, m.norm, *stored.User, stored.Token)
	} else {
		m.state = common.SignInView
	}
	return m
}

func (m MainModel) Init() tea.Cmd {
	if m.state == common.FeedView {
		return m.feed.Init()
	}
	return m.signin.Init()
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.header.SetWidth(msg.Width)
		m.feed.SetSize(msg.Width, msg.Height-3)
		m.composer.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.teardownAll()
			return m, tea.Quit
		case "ctrl+o":
			if m.session != nil {
				return m.signOut()
			}
		case "ctrl+n":
			if m.state == common.FeedView {
				return m.switchTo(common.ComposeView)
			}
		case "esc":
			if m.state == common.ComposeView {
				return m.switchTo(common.FeedView)
			}
		}
		return m.route(msg)

	case common.ToastMsg:
		m.toast = &msg
		m.toastSeq++
		seq := m.toastSeq
		return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{seq: seq}
		})

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case common.SignedInMsg:
		m.session = msg.Session
		m.header.SetViewer(msg.Session.User)
		return m.switchTo(common.FeedView)

	case common.SignedOutMsg:
		return m.signOut()

	case common.SessionExpiredMsg:
		return m.sessionExpired()

	case common.PostCreatedMsg:
		prependCmd := m.feed.Prepend(msg.Post)
		model, switchCmd := m.switchTo(common.FeedView)
		return model, tea.Batch(prependCmd, switchCmd)

	case common.PostDeletedMsg:
		m.feed.Remove(msg.PostID)
		return m, nil
	}

	return m.route(msg)
}

// route forwards a message to the active view, plus the feed view for
// result messages that arrive after a view switch.
func (m MainModel) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case common.SignInView:
		m.signin, cmd = m.signin.Update(msg)
	case common.FeedView:
		m.feed, cmd = m.feed.Update(msg)
	case common.ComposeView:
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			// Card results keep flowing to the feed while composing.
			var feedCmd tea.Cmd
			m.feed, feedCmd = m.feed.Update(msg)
			m.composer, cmd = m.composer.Update(msg)
			return m, tea.Batch(cmd, feedCmd)
		}
		m.composer, cmd = m.composer.Update(msg)
	}
	return m, cmd
}

func (m MainModel) switchTo(state common.SessionState) (tea.Model, tea.Cmd) {
	if state == m.state {
		return m, nil
	}

	var cmd tea.Cmd
	switch state {
	case common.SignInView:
		m.feed.Teardown()
		m.composer.Teardown()
		m.signin = signin.New(m.api, m.store)
		cmd = m.signin.Init()
	case common.FeedView:
		if m.state == common.SignInView {
			m.signin.Teardown()
			m.feed = feedview.New(m.api, m.norm, *m.session.User, m.session.Token)
			m.feed.SetSize(m.width, m.height-3)
			cmd = m.feed.Init()
		} else {
			m.composer.Teardown()
		}
	case common.ComposeView:
		m.composer = composer.New(m.api, *m.session.User, m.session.Token)
		m.composer.SetWidth(m.width)
		cmd = m.composer.Init()
	}
	m.state = state
	return m, cmd
}

// signOut clears local state only. There is no sign-out endpoint.
func (m MainModel) signOut() (tea.Model, tea.Cmd) {
	if m.store != nil {
		m.store.Clear()
	}
	m.session = nil
	m.header.SetViewer(nil)
	return m.switchTo(common.SignInView)
}

// sessionExpired applies the configured expiry policy to the unified
// session-invalid signal.
func (m MainModel) sessionExpired() (tea.Model, tea.Cmd) {
	if m.cfg.ExpiryPolicy == config.ExpiryNotify {
		return m, func() tea.Msg {
			return common.Toast(common.ToastWarn, "Your session has expired. Please sign in again.")
		}
	}
	model, cmd := m.signOut()
	return model, tea.Batch(cmd, func() tea.Msg {
		return common.Toast(common.ToastWarn, "Your session has expired. Please sign in again.")
	})
}

func (m *MainModel) teardownAll() {
	m.signin.Teardown()
	m.feed.Teardown()
	m.composer.Teardown()
}

func (m MainModel) View() string {
	var body string
	switch m.state {
	case common.SignInView:
		body = m.signin.View()
	case common.FeedView:
		body = m.feed.View()
	case common.ComposeView:
		body = m.composer.View()
	}

	status := ""
	if m.toast != nil {
		switch m.toast.Level {
		case common.ToastError:
			status = common.ErrorStyle.Render(m.toast.Text)
		case common.ToastWarn:
			status = common.WarnStyle.Render(m.toast.Text)
		default:
			status = common.OKStyle.Render(m.toast.Text)
		}
	}

	return m.header.View() + "\n" + body + "\n" + status
}
