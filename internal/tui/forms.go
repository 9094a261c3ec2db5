package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"obralog/internal/format"
	"obralog/internal/model"
)

type stageChoice struct {
	key     string
	label   string
	checked bool
}

// defaultStageChoices is the checklist offered on project creation. A form
// submitted with nothing checked falls back to all of them.
func defaultStageChoices() []stageChoice {
	return []stageChoice{
		{key: "foundation", label: "Fundação"},
		{key: "masonry", label: "Alvenaria"},
		{key: "roofing", label: "Cobertura"},
		{key: "finishing", label: "Acabamento"},
	}
}

// createForm is the "Nova Obra" modal state. Focus walks client → address →
// start date → stage checkboxes → custom stage → files.
type createForm struct {
	client  textinput.Model
	address textinput.Model
	date    textinput.Model
	custom  textinput.Model
	files   textinput.Model
	stages  []stageChoice
	focus   int
	busy    bool
	errText string
}

const (
	createFocusClient = iota
	createFocusAddress
	createFocusDate
	createFocusStages // + index into stages
)

func newCreateForm() createForm {
	f := createForm{stages: defaultStageChoices()}

	f.client = textinput.New()
	f.client.Placeholder = "Nome do cliente"
	f.client.CharLimit = 80
	f.client.Focus()

	f.address = textinput.New()
	f.address.Placeholder = "Endereço da obra"
	f.address.CharLimit = 120

	f.date = textinput.New()
	f.date.Placeholder = "AAAA-MM-DD"
	f.date.CharLimit = 10
	f.date.SetValue(time.Now().Format("2006-01-02"))

	f.custom = textinput.New()
	f.custom.Placeholder = "Etapa personalizada (enter adiciona)"
	f.custom.CharLimit = 40

	f.files = textinput.New()
	f.files.Placeholder = "Arquivos (caminhos separados por vírgula)"
	f.files.CharLimit = 400

	return f
}

func (f *createForm) fieldCount() int {
	// client, address, date, each stage checkbox, custom, files
	return 3 + len(f.stages) + 2
}

func (f *createForm) customFocus() int { return createFocusStages + len(f.stages) }
func (f *createForm) filesFocus() int  { return f.customFocus() + 1 }

func (f *createForm) setFocus(i int) {
	n := f.fieldCount()
	f.focus = ((i % n) + n) % n
	for _, in := range []*textinput.Model{&f.client, &f.address, &f.date, &f.custom, &f.files} {
		in.Blur()
	}
	switch {
	case f.focus == createFocusClient:
		f.client.Focus()
	case f.focus == createFocusAddress:
		f.address.Focus()
	case f.focus == createFocusDate:
		f.date.Focus()
	case f.focus == f.customFocus():
		f.custom.Focus()
	case f.focus == f.filesFocus():
		f.files.Focus()
	}
}

// handleKey routes a key to the form. submit reports that the user asked to
// create the project.
func (f *createForm) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, submit bool) {
	switch msg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return nil, false
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return nil, false
	case " ":
		if i := f.focus - createFocusStages; i >= 0 && i < len(f.stages) {
			f.stages[i].checked = !f.stages[i].checked
			return nil, false
		}
	case "enter":
		if f.focus == f.customFocus() {
			f.addCustomStage()
			return nil, false
		}
		return nil, true
	}

	switch f.focus {
	case createFocusClient:
		f.client, cmd = f.client.Update(msg)
	case createFocusAddress:
		f.address, cmd = f.address.Update(msg)
	case createFocusDate:
		f.date, cmd = f.date.Update(msg)
	case f.customFocus():
		f.custom, cmd = f.custom.Update(msg)
	case f.filesFocus():
		f.files, cmd = f.files.Update(msg)
	}
	return cmd, false
}

// addCustomStage appends a checked stage with a timestamp-derived key, the
// same keying scheme the seeded catalogue avoids colliding with.
func (f *createForm) addCustomStage() {
	label := strings.TrimSpace(f.custom.Value())
	if label == "" {
		return
	}
	f.stages = append(f.stages, stageChoice{
		key:     fmt.Sprintf("custom_%d", time.Now().UnixMilli()),
		label:   label,
		checked: true,
	})
	f.custom.SetValue("")
}

// buildInput validates and assembles the creation payload. File paths are
// not read here; the caller stages them before dispatching the write.
func (f *createForm) buildInput() (createInput, []string, error) {
	client := strings.TrimSpace(f.client.Value())
	address := strings.TrimSpace(f.address.Value())
	date := strings.TrimSpace(f.date.Value())
	if client == "" || address == "" || date == "" {
		return createInput{}, nil, errors.New("preencha cliente, endereço e data de início")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return createInput{}, nil, errors.New("data de início inválida (use AAAA-MM-DD)")
	}

	chosen := make([]stageChoice, 0, len(f.stages))
	for _, s := range f.stages {
		if s.checked {
			chosen = append(chosen, s)
		}
	}
	if len(chosen) == 0 {
		chosen = defaultStageChoices()
	}

	stages := make(model.StageMap, len(chosen))
	order := make([]string, 0, len(chosen))
	for _, s := range chosen {
		stages[s.key] = model.Stage{Label: s.label, Active: true, Progress: 0}
		order = append(order, s.key)
	}

	var paths []string
	for _, p := range strings.Split(f.files.Value(), ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}

	return createInput{
		Client:     client,
		Address:    address,
		StartDate:  date,
		Stages:     stages,
		StageOrder: order,
	}, paths, nil
}

// updateForm is the "Nova Atualização" modal state.
type updateForm struct {
	roles     []format.RoleOption
	roleIdx   int
	title     textinput.Model
	desc      textarea.Model
	progress  textinput.Model
	photos    textinput.Model
	milestone bool
	focus     int
	busy      bool
	errText   string
}

const (
	updateFocusRole = iota
	updateFocusTitle
	updateFocusDesc
	updateFocusProgress
	updateFocusPhotos
	updateFocusMilestone
	updateFieldCount
)

func newUpdateForm(p *model.Project) updateForm {
	f := updateForm{roles: format.RoleOptions(p)}

	f.title = textinput.New()
	f.title.Placeholder = "Título da atualização"
	f.title.CharLimit = 120

	f.desc = textarea.New()
	f.desc.Placeholder = "Descrição (markdown)"
	f.desc.SetHeight(4)
	f.desc.CharLimit = 2000

	f.progress = textinput.New()
	f.progress.Placeholder = "Progresso da etapa (0-100, opcional)"
	f.progress.CharLimit = 3

	f.photos = textinput.New()
	f.photos.Placeholder = "Fotos (caminhos separados por vírgula)"
	f.photos.CharLimit = 400

	f.setFocus(updateFocusRole)
	return f
}

func (f *updateForm) setFocus(i int) {
	f.focus = ((i % updateFieldCount) + updateFieldCount) % updateFieldCount
	f.title.Blur()
	f.desc.Blur()
	f.progress.Blur()
	f.photos.Blur()
	switch f.focus {
	case updateFocusTitle:
		f.title.Focus()
	case updateFocusDesc:
		f.desc.Focus()
	case updateFocusProgress:
		f.progress.Focus()
	case updateFocusPhotos:
		f.photos.Focus()
	}
}

func (f *updateForm) role() format.RoleOption {
	if len(f.roles) == 0 {
		return format.RoleOption{}
	}
	return f.roles[f.roleIdx]
}

func (f *updateForm) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, submit bool) {
	switch msg.String() {
	case "ctrl+s":
		return nil, true
	case "tab":
		f.setFocus(f.focus + 1)
		return nil, false
	case "shift+tab":
		f.setFocus(f.focus - 1)
		return nil, false
	case "enter":
		// The description keeps enter for newlines; anywhere else submits.
		if f.focus != updateFocusDesc {
			return nil, true
		}
	case " ":
		if f.focus == updateFocusMilestone {
			f.milestone = !f.milestone
			return nil, false
		}
	case "left", "right":
		if f.focus == updateFocusRole && len(f.roles) > 0 {
			d := 1
			if msg.String() == "left" {
				d = -1
			}
			n := len(f.roles)
			f.roleIdx = ((f.roleIdx+d)%n + n) % n
			return nil, false
		}
	}

	switch f.focus {
	case updateFocusTitle:
		f.title, cmd = f.title.Update(msg)
	case updateFocusDesc:
		f.desc, cmd = f.desc.Update(msg)
	case updateFocusProgress:
		f.progress, cmd = f.progress.Update(msg)
	case updateFocusPhotos:
		f.photos, cmd = f.photos.Update(msg)
	}
	return cmd, false
}

func (f *updateForm) buildInput() (updateInput, []string, error) {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		return updateInput{}, nil, errors.New("informe um título")
	}

	in := updateInput{
		Role:        f.role().Key,
		Title:       title,
		Description: strings.TrimSpace(f.desc.Value()),
		Milestone:   f.milestone,
	}

	if raw := strings.TrimSpace(f.progress.Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 100 {
			return updateInput{}, nil, errors.New("progresso deve ser um número de 0 a 100")
		}
		in.Progress = n
		in.HasProgress = true
	}

	var paths []string
	for _, p := range strings.Split(f.photos.Value(), ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return in, paths, nil
}
