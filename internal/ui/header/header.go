// Package header renders the persistent top bar: branding, the search box,
// and the signed-in profile summary.
package header

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mgfeed/internal/models"
	"mgfeed/internal/ui/common"
)

var (
	brandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(common.AccentColor).
			Bold(true).
			Padding(0, 1)

	searchStyle = lipgloss.NewStyle().
			Foreground(common.FaintColor).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(common.FaintColor).
			Padding(0, 1)
)

// Model is the top bar. The search box is decorative; search is not wired to
// any backend operation.
type Model struct {
	viewer *models.User
	width  int
}

func New() Model {
	return Model{}
}

// SetViewer records the signed-in user shown on the right side, or clears it
// on sign-out.
func (m *Model) SetViewer(u *models.User) { m.viewer = u }

func (m *Model) SetWidth(w int) { m.width = w }

func (m Model) View() string {
	brand := brandStyle.Render("MG'")
	search := searchStyle.Render("🔍 Search...")

	right := common.FaintStyle.Render("not signed in")
	if m.viewer != nil {
		name := m.viewer.Name
		if name == "" {
			name = m.viewer.Username
		}
		right = common.OKStyle.Render("@"+m.viewer.Pseudo) + common.FaintStyle.Render(" · "+name+" · ctrl+o: sign out")
	}

	left := brand + "  " + search
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
