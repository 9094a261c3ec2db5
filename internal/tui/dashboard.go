package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"obralog/internal/format"
	"obralog/internal/model"
	"obralog/internal/session"
)

// renderDashboard draws the project card list. It is a pure function of
// the mirror snapshot, navigation state, cursor and width; every call
// rebuilds the full string from scratch.
func renderDashboard(mirror []model.Project, sess session.State, cursor, width int) string {
	admin := sess.Mode == session.ModeAdmin

	cardW := width - 4
	if cardW > 70 {
		cardW = 70
	}
	if cardW < 30 {
		cardW = 30
	}

	if len(mirror) == 0 {
		out := styleMuted().Render("Nenhuma obra cadastrada.")
		if admin {
			out += "\n\n" + styleMuted().Render("n: adicionar nova obra")
		}
		return out
	}

	cards := make([]string, 0, len(mirror)+1)
	for i := range mirror {
		cards = append(cards, renderProjectCard(&mirror[i], admin, i == cursor, cardW))
	}
	if admin {
		cards = append(cards, renderAddCard(cursor == len(mirror), cardW))
	}
	return strings.Join(cards, "\n")
}

func renderProjectCard(p *model.Project, admin, selected bool, width int) string {
	innerW := width - 4

	badge := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorAccentFg).
		Background(statusColor(string(p.Status))).
		Render(string(p.Status))
	date := styleMuted().Render(format.Date(p.StartDate))
	head := spreadLine(badge, date, innerW)

	lines := []string{
		head,
		styleTitle().Render(p.Client),
		styleMuted().Render(p.Address),
		"",
		styleMuted().Render("Progresso Geral"),
		renderProgressBar(p.Progress, innerW),
	}
	if admin {
		lines = append(lines, "", styleMuted().Render("enter: linha do tempo   x: excluir"))
	} else {
		lines = append(lines, "", styleMuted().Render("enter: linha do tempo"))
	}

	border := colorCardBorder
	if selected {
		border = colorSelectedBorder
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// renderAddCard is the admin-only "Adicionar Nova Obra" card.
func renderAddCard(selected bool, width int) string {
	border := colorCardBorder
	if selected {
		border = colorSelectedBorder
	}
	label := lipgloss.NewStyle().Foreground(colorAccent).Render("+ Adicionar Nova Obra")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width).
		Align(lipgloss.Center).
		Render(label + "\n" + styleMuted().Render("n: abrir formulário"))
}

// spreadLine lays left and right out on one line, padding the middle.
func spreadLine(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
