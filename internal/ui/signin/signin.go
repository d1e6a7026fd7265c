// Package signin is the credential form. On success it persists the session
// and hands control back to the root model.
package signin

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mgfeed/internal/api"
	"mgfeed/internal/models"
	"mgfeed/internal/session"
	"mgfeed/internal/ui/common"
)

const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

// Model is the sign-in view.
type Model struct {
	api    common.API
	store  *session.Store
	inputs [fieldCount]textinput.Model
	focus  int

	message string
	busy    bool

	ctx    context.Context
	cancel context.CancelFunc
	active bool
}

type signInResultMsg struct {
	session *models.Session
	err     error
}

// New returns a fresh sign-in form.
func New(apiClient common.API, store *session.Store) Model {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		api:    apiClient,
		store:  store,
		inputs: [fieldCount]textinput.Model{email, password},
		ctx:    ctx,
		cancel: cancel,
		active: true,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Teardown cancels any outstanding sign-in call. Results arriving afterwards
// are dropped instead of mutating a defunct view.
func (m *Model) Teardown() {
	m.active = false
	if m.cancel != nil {
		m.cancel()
	}
}

func (m Model) submitCmd() tea.Cmd {
	in := api.SignInInput{
		Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Password: m.inputs[fieldPassword].Value(),
	}
	ctx := m.ctx
	apiClient := m.api
	return func() tea.Msg {
		sess, err := apiClient.SignIn(ctx, in)
		return signInResultMsg{session: sess, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case signInResultMsg:
		if !m.active {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			// Any failure, including a 200 missing token or user, leaves the
			// view unauthenticated with a message.
			m.message = msg.err.Error()
			return m, nil
		}
		if err := m.store.Save(msg.session); err != nil {
			m.message = err.Error()
			return m, nil
		}
		sess := msg.session
		return m, func() tea.Msg { return common.SignedInMsg{Session: sess} }

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % fieldCount
			return m.refocus()
		case "shift+tab", "up":
			m.focus = (m.focus + fieldCount - 1) % fieldCount
			return m.refocus()
		case "enter":
			if m.busy {
				return m, nil
			}
			if strings.TrimSpace(m.inputs[fieldEmail].Value()) == "" ||
				m.inputs[fieldPassword].Value() == "" {
				m.message = "Email and password are required."
				return m, nil
			}
			m.busy = true
			m.message = ""
			return m, m.submitCmd()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) refocus() (Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmds = append(cmds, m.inputs[i].Focus())
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(common.TitleStyle.Render("Sign In"))
	b.WriteString("\n\n")

	if m.message != "" {
		b.WriteString(common.ErrorStyle.Render(m.message))
		b.WriteString("\n\n")
	}

	b.WriteString(m.inputs[fieldEmail].View())
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldPassword].View())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(common.FaintStyle.Render("Signing in..."))
	} else {
		b.WriteString(common.FaintStyle.Render("enter: sign in • tab: next field • ctrl+c: quit"))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
