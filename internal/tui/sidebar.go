package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"obralog/internal/model"
	"obralog/internal/session"
)

const sidebarWidth = 26

// renderSidebar lists the overview link and the works currently in
// progress ("Em Andamento" only; planned and finished works are reached
// through the dashboard cards).
func renderSidebar(mirror []model.Project, sess session.State, height int) string {
	itemW := sidebarWidth - 2

	item := lipgloss.NewStyle().Width(itemW).Padding(0, 1)
	active := item.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	var b strings.Builder
	b.WriteString(styleTitle().Render(" ObraLog"))
	b.WriteString("\n\n")

	overview := item
	if sess.View == session.ViewDashboard {
		overview = active
	}
	b.WriteString(overview.Render("Visão Geral"))
	b.WriteString("\n\n")

	b.WriteString(styleMuted().Render(" Obras Ativas"))
	b.WriteString("\n")
	any := false
	for i := range mirror {
		p := &mirror[i]
		if p.Status != model.StatusActive {
			continue
		}
		any = true
		st := item
		if sess.View == session.ViewTimeline && sess.ActiveProjectID == p.ID {
			st = active
		}
		b.WriteString(st.Render(truncate("• "+p.Client, itemW-2)))
		b.WriteString("\n")
	}
	if !any {
		b.WriteString(styleMuted().Render(" (nenhuma)"))
		b.WriteString("\n")
	}

	mode := "modo: administrador"
	if sess.Mode == session.ModeClient {
		mode = "modo: cliente"
	}
	b.WriteString("\n" + styleMuted().Render(" "+mode))

	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(height).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(colorCardBorder).
		Render(b.String())
}

func truncate(s string, width int) string {
	if xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Cut(s, 0, width-1) + "…"
}
