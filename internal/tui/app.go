package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"obralog/internal/backend"
	"obralog/internal/model"
	"obralog/internal/session"
	appsync "obralog/internal/sync"
)

// Deps bundles the wired backends the TUI talks to.
type Deps struct {
	Auth  backend.AuthProvider
	Store backend.DocumentStore
	Blob  backend.BlobStore
	Ctrl  *appsync.Controller
	Log   *zap.Logger
}

// appModel is the single source of UI truth. View() rebuilds the whole
// screen from it on every message; nothing is patched in place.
type appModel struct {
	deps Deps

	width  int
	height int

	sess      session.State
	cursor    int
	authed    bool
	notice    string
	noticeErr bool

	login loginForm

	modal        modalKind
	create       createForm
	update       updateForm
	updateTarget model.DocID
	deleteTarget model.DocID
	deleteName   string
	confirmFocus confirmModalFocus
}

func newAppModel(deps Deps) appModel {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return appModel{
		deps:   deps,
		width:  100,
		height: 32,
		sess:   session.New(),
		login:  newLoginForm(),
	}
}

func (m appModel) Init() tea.Cmd {
	return waitForSync(m.deps.Ctrl.Events())
}

// waitForSync re-arms the controller listener; the handler for the
// delivered message must return it again or sync wake-ups stop.
func waitForSync(ch <-chan appsync.Msg) tea.Cmd {
	return func() tea.Msg { return syncMsg(<-ch) }
}

func (m appModel) View() string {
	if !m.authed {
		return renderLogin(m.login, m.width, m.height)
	}

	mirror := m.deps.Ctrl.Mirror()
	contentW := m.width - sidebarWidth - 2
	if contentW < 40 {
		contentW = 40
	}

	var content string
	switch m.modal {
	case modalNewProject:
		content = renderCreateModal(m.create, contentW)
	case modalNewUpdate:
		content = renderUpdateModal(m.update, contentW)
	case modalConfirmDelete:
		body := "Excluir a obra \"" + m.deleteName + "\"?\nEssa ação não pode ser desfeita."
		content = renderConfirmModal(contentW, "Excluir Obra", body, "Excluir", "Cancelar", m.confirmFocus)
	default:
		switch m.sess.View {
		case session.ViewTimeline:
			content = renderTimeline(mirror, m.sess, contentW)
		default:
			content = renderDashboard(mirror, m.sess, m.cursor, contentW)
		}
	}

	sidebar := renderSidebar(mirror, m.sess, m.height-2)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", content)
	return body + "\n" + m.renderFooter()
}

func (m appModel) renderFooter() string {
	if m.notice != "" {
		c := colorAccent
		if m.noticeErr {
			c = colorDanger
		}
		return lipgloss.NewStyle().Foreground(c).Render(m.notice)
	}
	help := "q: sair   l: sair da conta   m: alternar modo"
	if m.sess.View == session.ViewTimeline {
		help = "esc: voltar   " + help
	}
	return styleMuted().Render(help)
}

// Run starts the interactive program.
func Run(deps Deps) error {
	applyColorProfilePreference()
	applyThemePreference()
	_, err := tea.NewProgram(newAppModel(deps), tea.WithAltScreen()).Run()
	return err
}
