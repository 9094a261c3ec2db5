package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginForm is the sign-in screen state. It is the only screen reachable
// while signed out.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	errText  string
}

func newLoginForm() loginForm {
	var f loginForm

	f.email = textinput.New()
	f.email.Placeholder = "email"
	f.email.CharLimit = 120
	f.email.Focus()

	f.password = textinput.New()
	f.password.Placeholder = "senha"
	f.password.CharLimit = 120
	f.password.EchoMode = textinput.EchoPassword
	f.password.EchoCharacter = '•'

	return f
}

func (f *loginForm) setFocus(i int) {
	f.focus = ((i % 2) + 2) % 2
	f.email.Blur()
	f.password.Blur()
	if f.focus == 0 {
		f.email.Focus()
	} else {
		f.password.Focus()
	}
}

func (f *loginForm) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, submit bool) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		f.setFocus(f.focus + 1)
		return nil, false
	case "enter":
		return nil, true
	}
	if f.focus == 0 {
		f.email, cmd = f.email.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return cmd, false
}

func renderLogin(f loginForm, width, height int) string {
	lines := []string{
		styleTitle().Render("ObraLog"),
		styleMuted().Render("Acompanhamento de obras"),
		"",
		f.email.View(),
		f.password.View(),
	}
	if f.errText != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(colorDanger).Render(f.errText))
	}
	if f.busy {
		lines = append(lines, "", styleMuted().Render("Entrando..."))
	} else {
		lines = append(lines, "", styleMuted().Render("enter: entrar   tab: alternar campo"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
