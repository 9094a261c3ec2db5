package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"obralog/internal/backend"
	"obralog/internal/model"
	"obralog/internal/session"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case syncMsg:
		if msg.Notice != "" {
			m.notice = msg.Notice
			m.noticeErr = true
		}
		m.clampCursor()
		// Re-arm the listener; the mirror itself is re-read on render.
		return m, waitForSync(m.deps.Ctrl.Events())

	case loginDoneMsg:
		m.login.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, backend.ErrInvalidCredentials) {
				m.login.errText = "Email ou senha inválidos."
			} else {
				m.deps.Log.Error("sign-in failed", zap.Error(msg.err))
				m.login.errText = "Erro ao entrar. Tente novamente."
			}
			return m, nil
		}
		m.authed = true
		m.notice = ""
		m.login = newLoginForm()
		return m, nil

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if !m.authed {
		if m.login.busy {
			return m, nil
		}
		cmd, submit := m.login.handleKey(msg)
		if !submit {
			return m, cmd
		}
		email := strings.TrimSpace(m.login.email.Value())
		password := m.login.password.Value()
		if email == "" || password == "" {
			m.login.errText = "Informe email e senha."
			return m, nil
		}
		m.login.busy = true
		m.login.errText = ""
		return m, signInCmd(m.deps.Auth, email, password)
	}

	if m.modal != modalNone {
		return m.handleModalKey(msg)
	}

	m.notice = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "l":
		// Sign-out: the controller is bound to the auth state and tears
		// the subscription down on its own.
		if err := m.deps.Auth.SignOut(); err != nil {
			m.deps.Log.Error("sign-out failed", zap.Error(err))
		}
		m.authed = false
		m.login = newLoginForm()
		m.sess.Reset()
		m.cursor = 0
		return m, nil
	case "m":
		if m.sess.Mode == session.ModeAdmin {
			m.sess.SetMode(session.ModeClient)
		} else {
			m.sess.SetMode(session.ModeAdmin)
		}
		return m, nil
	case "esc":
		if m.sess.View == session.ViewTimeline {
			m.sess.NavigateTo(session.ViewDashboard, "")
		}
		return m, nil
	}

	if m.sess.View == session.ViewTimeline {
		return m.handleTimelineKey(msg)
	}
	return m.handleDashboardKey(msg)
}

func (m appModel) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mirror := m.deps.Ctrl.Mirror()
	admin := m.sess.Mode == session.ModeAdmin

	max := len(mirror) - 1
	if admin {
		max++ // the trailing "Adicionar Nova Obra" card
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < max {
			m.cursor++
		}
	case "enter":
		if admin && m.cursor == len(mirror) {
			m.openCreateModal()
			return m, nil
		}
		if m.cursor < len(mirror) {
			m.sess.NavigateTo(session.ViewTimeline, mirror[m.cursor].ID)
		}
	case "n":
		if admin {
			m.openCreateModal()
		}
	case "x":
		if admin && m.cursor < len(mirror) {
			m.openDeleteModal(mirror[m.cursor].ID, mirror[m.cursor].Client)
		}
	}
	return m, nil
}

func (m appModel) handleTimelineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	admin := m.sess.Mode == session.ModeAdmin
	p, ok := m.resolveTimelineProject()

	switch msg.String() {
	case "u":
		if admin && ok {
			m.update = newUpdateForm(&p)
			m.updateTarget = p.ID
			m.modal = modalNewUpdate
		}
	case "x":
		if admin && ok {
			m.openDeleteModal(p.ID, p.Client)
		}
	}
	return m, nil
}

// resolveTimelineProject mirrors the renderer's fallback: the selected id
// when present, otherwise the first project.
func (m *appModel) resolveTimelineProject() (model.Project, bool) {
	if p, ok := m.deps.Ctrl.Project(m.sess.ActiveProjectID); ok {
		return p, true
	}
	mirror := m.deps.Ctrl.Mirror()
	if len(mirror) > 0 {
		return mirror[0], true
	}
	return model.Project{}, false
}

func (m *appModel) openCreateModal() {
	m.create = newCreateForm()
	m.modal = modalNewProject
}

func (m *appModel) openDeleteModal(id model.DocID, name string) {
	m.deleteTarget = id
	m.deleteName = name
	m.confirmFocus = confirmFocusCancel
	m.modal = modalConfirmDelete
}

func (m appModel) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		if !m.modalBusy() {
			m.modal = modalNone
		}
		return m, nil
	}

	switch m.modal {
	case modalNewProject:
		if m.create.busy {
			return m, nil
		}
		cmd, submit := m.create.handleKey(msg)
		if !submit {
			return m, cmd
		}
		in, paths, err := m.create.buildInput()
		if err != nil {
			m.create.errText = err.Error()
			return m, nil
		}
		files, err := readLocalFiles(paths)
		if err != nil {
			m.create.errText = "Não foi possível ler um dos arquivos."
			return m, nil
		}
		in.Files = files
		m.create.busy = true
		m.create.errText = ""
		return m, createProjectCmd(m.deps.Store, m.deps.Blob, in)

	case modalNewUpdate:
		if m.update.busy {
			return m, nil
		}
		cmd, submit := m.update.handleKey(msg)
		if !submit {
			return m, cmd
		}
		in, paths, err := m.update.buildInput()
		if err != nil {
			m.update.errText = err.Error()
			return m, nil
		}
		photos, err := readLocalFiles(paths)
		if err != nil {
			m.update.errText = "Não foi possível ler uma das fotos."
			return m, nil
		}
		in.Photos = photos
		// Re-resolve the target: the mirror may have changed while the
		// form was open.
		p, ok := m.deps.Ctrl.Project(m.updateTarget)
		if !ok {
			m.modal = modalNone
			m.notice = "Obra não encontrada."
			return m, nil
		}
		m.update.busy = true
		m.update.errText = ""
		return m, postUpdateCmd(m.deps.Store, m.deps.Blob, p, in)

	case modalConfirmDelete:
		switch msg.String() {
		case "tab", "left", "right":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
		case "enter":
			if m.confirmFocus == confirmFocusCancel {
				m.modal = modalNone
				return m, nil
			}
			return m, deleteProjectCmd(m.deps.Store, m.deleteTarget)
		}
	}
	return m, nil
}

func (m appModel) modalBusy() bool {
	switch m.modal {
	case modalNewProject:
		return m.create.busy
	case modalNewUpdate:
		return m.update.busy
	}
	return false
}

func (m appModel) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	switch msg.op {
	case opCreateProject:
		m.create.busy = false
		if msg.err != nil {
			m.deps.Log.Error("create project failed", zap.Error(msg.err))
			m.create.errText = "Erro ao criar obra. Tente novamente."
			return m, nil
		}
		m.modal = modalNone
		m.notice = "Obra criada com sucesso."
		m.noticeErr = false

	case opPostUpdate:
		m.update.busy = false
		if msg.err != nil {
			m.deps.Log.Error("post update failed", zap.Error(msg.err))
			m.update.errText = "Erro ao publicar atualização. Tente novamente."
			return m, nil
		}
		m.modal = modalNone
		m.notice = "Atualização publicada."
		m.noticeErr = false

	case opDeleteProject:
		m.modal = modalNone
		if msg.err != nil {
			m.deps.Log.Error("delete project failed", zap.Error(msg.err))
			m.notice = "Erro ao excluir obra."
			m.noticeErr = true
			return m, nil
		}
		m.notice = "Obra excluída."
		m.noticeErr = false
		// Viewing the deleted timeline navigates away instead of falling
		// back to an arbitrary project.
		if m.sess.View == session.ViewTimeline && m.sess.ActiveProjectID == msg.deletedID {
			m.sess.NavigateTo(session.ViewDashboard, "")
		}
		m.clampCursor()
	}
	return m, nil
}

func (m *appModel) clampCursor() {
	mirror := m.deps.Ctrl.Mirror()
	max := len(mirror) - 1
	if m.sess.Mode == session.ModeAdmin {
		max++
	}
	if max < 0 {
		max = 0
	}
	if m.cursor > max {
		m.cursor = max
	}
}
