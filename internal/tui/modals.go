package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderCreateModal(f createForm, width int) string {
	bodyW := modalBodyWidth(width)

	var b strings.Builder
	b.WriteString(fieldLabel("Cliente", f.focus == createFocusClient))
	b.WriteString("\n" + f.client.View() + "\n")
	b.WriteString(fieldLabel("Endereço", f.focus == createFocusAddress))
	b.WriteString("\n" + f.address.View() + "\n")
	b.WriteString(fieldLabel("Data de início", f.focus == createFocusDate))
	b.WriteString("\n" + f.date.View() + "\n\n")

	b.WriteString(fieldLabel("Etapas", f.focus >= createFocusStages && f.focus < f.customFocus()))
	b.WriteString("\n")
	for i, s := range f.stages {
		mark := "[ ]"
		if s.checked {
			mark = "[x]"
		}
		line := mark + " " + s.label
		if f.focus == createFocusStages+i {
			line = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(f.custom.View() + "\n\n")

	b.WriteString(fieldLabel("Arquivos", f.focus == f.filesFocus()))
	b.WriteString("\n" + f.files.View() + "\n")

	if f.errText != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(colorDanger).Render(f.errText))
	}
	if f.busy {
		b.WriteString("\n" + styleMuted().Render("Criando obra..."))
	} else {
		b.WriteString("\n" + styleMuted().Width(bodyW).Render(
			"tab: próximo campo   espaço: marcar etapa   enter: criar   esc: cancelar"))
	}
	return renderModalBox(width, "Nova Obra", b.String())
}

func renderUpdateModal(f updateForm, width int) string {
	bodyW := modalBodyWidth(width)

	var b strings.Builder
	b.WriteString(fieldLabel("Quem está postando", f.focus == updateFocusRole))
	b.WriteString("\n")
	role := f.role()
	picker := "◀ " + role.Label + " ▶"
	if f.focus == updateFocusRole {
		picker = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(picker)
	}
	b.WriteString(picker + "\n\n")

	b.WriteString(fieldLabel("Título", f.focus == updateFocusTitle))
	b.WriteString("\n" + f.title.View() + "\n")
	b.WriteString(fieldLabel("Descrição", f.focus == updateFocusDesc))
	b.WriteString("\n" + f.desc.View() + "\n")
	b.WriteString(fieldLabel("Progresso da etapa", f.focus == updateFocusProgress))
	b.WriteString("\n" + f.progress.View() + "\n")
	b.WriteString(fieldLabel("Fotos", f.focus == updateFocusPhotos))
	b.WriteString("\n" + f.photos.View() + "\n\n")

	mark := "[ ]"
	if f.milestone {
		mark = "[x]"
	}
	milestone := mark + " Marco da obra 🏁"
	if f.focus == updateFocusMilestone {
		milestone = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(milestone)
	}
	b.WriteString(milestone + "\n")

	if f.errText != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(colorDanger).Render(f.errText))
	}
	if f.busy {
		b.WriteString("\n" + styleMuted().Render("Publicando..."))
	} else {
		b.WriteString("\n" + styleMuted().Width(bodyW).Render(
			"tab: próximo campo   ctrl+s: publicar   esc: cancelar"))
	}
	return renderModalBox(width, "Nova Atualização", b.String())
}

func fieldLabel(label string, focused bool) string {
	if focused {
		return lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(label)
	}
	return styleMuted().Render(label)
}
