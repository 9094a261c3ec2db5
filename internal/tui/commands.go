package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"obralog/internal/backend"
	"obralog/internal/model"
	"obralog/internal/progress"
)

// localFile is a file staged for upload, read off disk before the write
// sequence starts so an unreadable path fails the whole submission early.
type localFile struct {
	Name string
	Data []byte
}

func readLocalFiles(paths []string) ([]localFile, error) {
	var out []localFile
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, localFile{Name: filepath.Base(p), Data: data})
	}
	return out, nil
}

type createInput struct {
	Client     string
	Address    string
	StartDate  string
	Stages     model.StageMap
	StageOrder []string
	Files      []localFile
}

// createProject performs the two-step creation: the project document is
// written first (status "Planejamento"), then, only when files were
// supplied, the uploads run and a second write attaches their references
// and flips the status to "Em Andamento". A failure after the first write
// leaves a valid project with no attached files.
func createProject(store backend.DocumentStore, blob backend.BlobStore, in createInput, now time.Time) (model.DocID, error) {
	doc := model.Project{
		Client:     strings.TrimSpace(in.Client),
		Address:    strings.TrimSpace(in.Address),
		Status:     model.StatusPlanning,
		StartDate:  strings.TrimSpace(in.StartDate),
		Progress:   0,
		Stages:     in.Stages,
		StageOrder: in.StageOrder,
	}
	id, err := store.Add(doc)
	if err != nil {
		return "", err
	}
	if len(in.Files) == 0 {
		return id, nil
	}

	refs := make([]model.FileRef, 0, len(in.Files))
	for _, f := range in.Files {
		url, err := blob.Upload(uploadPath(id, f.Name, now), f.Data)
		if err != nil {
			return id, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		refs = append(refs, model.FileRef{Name: f.Name, URL: url})
	}
	if err := store.Update(id, []backend.Patch{
		{FieldPath: "projectFiles", Value: refs},
		{FieldPath: "status", Value: string(model.StatusActive)},
	}); err != nil {
		return id, err
	}
	return id, nil
}

type updateInput struct {
	Role        string
	Title       string
	Description string
	Milestone   bool
	Progress    int
	HasProgress bool
	Photos      []localFile
}

// postUpdate uploads the photos, then appends the diary entry — and, when
// the role matches an active stage and a progress value was given, patches
// that stage's progress plus the recomputed overall progress — all in a
// single write.
func postUpdate(store backend.DocumentStore, blob backend.BlobStore, p model.Project, in updateInput, now time.Time) error {
	var urls []string
	for _, f := range in.Photos {
		url, err := blob.Upload(uploadPath(p.ID, f.Name, now), f.Data)
		if err != nil {
			return fmt.Errorf("upload %s: %w", f.Name, err)
		}
		urls = append(urls, url)
	}

	entry := model.Update{
		ID:          fmt.Sprintf("%d", now.UnixMilli()),
		Date:        now.UTC().Format(time.RFC3339),
		Role:        in.Role,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Photos:      urls,
		MediaCount:  len(urls),
		HasMedia:    len(urls) > 0,
		Type:        model.UpdateProgress,
	}
	if in.Milestone {
		entry.Type = model.UpdateMilestone
	}

	patches := []backend.Patch{
		{FieldPath: "updates", Value: entry, ArrayUnion: true},
	}
	if st, ok := p.Stages[in.Role]; ok && st.Active && in.HasProgress {
		val := in.Progress
		if val < 0 {
			val = 0
		}
		if val > 100 {
			val = 100
		}
		patches = append(patches,
			backend.Patch{FieldPath: "stages." + in.Role + ".progress", Value: val},
			backend.Patch{FieldPath: "progress", Value: progress.OverallWith(p.Stages, in.Role, val)},
		)
	}
	return store.Update(p.ID, patches)
}

func uploadPath(id model.DocID, name string, now time.Time) string {
	return fmt.Sprintf("works/%s/%d_%s", id, now.UnixMilli(), name)
}

func signInCmd(auth backend.AuthProvider, email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: auth.SignIn(email, password)}
	}
}

func createProjectCmd(store backend.DocumentStore, blob backend.BlobStore, in createInput) tea.Cmd {
	return func() tea.Msg {
		_, err := createProject(store, blob, in, time.Now())
		return mutationDoneMsg{op: opCreateProject, err: err}
	}
}

func postUpdateCmd(store backend.DocumentStore, blob backend.BlobStore, p model.Project, in updateInput) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{op: opPostUpdate, err: postUpdate(store, blob, p, in, time.Now())}
	}
}

func deleteProjectCmd(store backend.DocumentStore, id model.DocID) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{op: opDeleteProject, err: store.Delete(id), deletedID: id}
	}
}
