package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"obralog/internal/format"
	"obralog/internal/model"
	"obralog/internal/session"
)

// renderTimeline draws the detail view for the session's active project.
// Resolution is lazy with fallback: an id absent from the mirror falls back
// to the first project; an empty mirror renders a not-found notice. The
// session state itself is never mutated here.
func renderTimeline(mirror []model.Project, sess session.State, width int) string {
	p, ok := model.FindProject(mirror, sess.ActiveProjectID)
	if !ok {
		if len(mirror) == 0 {
			return styleMuted().Render("Obra não encontrada.")
		}
		p = &mirror[0]
	}

	admin := sess.Mode == session.ModeAdmin

	leftW := width * 2 / 5
	if leftW > 40 {
		leftW = 40
	}
	if leftW < 24 {
		leftW = 24
	}
	rightW := width - leftW - 3
	if rightW < 30 {
		rightW = 30
	}

	left := lipgloss.NewStyle().Width(leftW).Render(renderStagePanel(p, leftW))
	right := lipgloss.NewStyle().Width(rightW).Render(renderDiary(p, admin, rightW))

	header := styleTitle().Render(p.Client) + "  " + styleMuted().Render(p.Address)
	return header + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)
}

func renderStagePanel(p *model.Project, width int) string {
	barW := width - 2
	var b strings.Builder

	b.WriteString(styleTitle().Render("Progresso por Etapa"))
	b.WriteString("\n")
	wrote := false
	for _, key := range p.OrderedStageKeys() {
		st := p.Stages[key]
		if !st.Active {
			continue
		}
		b.WriteString("\n")
		b.WriteString(format.RoleIcon(key) + " " + st.Label)
		b.WriteString("\n")
		b.WriteString(renderProgressBar(st.Progress, barW))
		b.WriteString("\n")
		wrote = true
	}
	if !wrote {
		b.WriteString("\n" + styleMuted().Render("Nenhuma etapa ativa."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleTitle().Render("Arquivos do Projeto"))
	b.WriteString("\n")
	if len(p.ProjectFiles) == 0 {
		b.WriteString(styleMuted().Render("Nenhum arquivo anexado."))
	} else {
		for _, f := range p.ProjectFiles {
			b.WriteString("📄 " + f.Name + "\n")
		}
	}
	return b.String()
}

func renderDiary(p *model.Project, admin bool, width int) string {
	var b strings.Builder
	b.WriteString(styleTitle().Render("Diário de Obra"))
	if admin {
		b.WriteString("  " + styleMuted().Render("u: nova atualização"))
	}
	b.WriteString("\n")

	updates := p.SortedUpdates()
	if len(updates) == 0 {
		b.WriteString("\n" + styleMuted().Render("Nenhuma atualização registrada."))
		return b.String()
	}

	for _, u := range updates {
		b.WriteString("\n")
		b.WriteString(renderDiaryEntry(u, width))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderDiaryEntry(u model.Update, width int) string {
	var b strings.Builder

	head := format.RoleIcon(u.Role) + " " + format.RoleName(u.Role)
	if u.Author != "" {
		head += " · " + u.Author
	}
	head += " · " + format.Date(u.Date)
	if u.Type == model.UpdateMilestone {
		head += "  🏁"
	}
	b.WriteString(styleMuted().Render(head))
	b.WriteString("\n")
	b.WriteString(styleTitle().Render(u.Title))

	if u.Description != "" {
		b.WriteString("\n")
		b.WriteString(renderMarkdown(u.Description, width-2))
	}

	// Real photo references and the count-only placeholder are mutually
	// exclusive: a placeholder next to real thumbnails would double-count.
	if len(u.Photos) > 0 {
		b.WriteString("\n")
		for _, ph := range u.Photos {
			b.WriteString("🖼  " + styleMuted().Render(ph) + "\n")
		}
	} else if u.HasMedia && u.MediaCount > 0 {
		b.WriteString("\n")
		b.WriteString(styleMuted().Render(fmt.Sprintf("📷 %d foto(s)", u.MediaCount)))
	}
	return strings.TrimRight(b.String(), "\n")
}
