package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"obralog/internal/backend"
	"obralog/internal/model"
	"obralog/internal/session"
	appsync "obralog/internal/sync"
)

type capturedUpdate struct {
	id      model.DocID
	patches []backend.Patch
}

// captureStore records writes without persisting anything.
type captureStore struct {
	nextID    int
	addErr    error
	updateErr error
	added     []model.Project
	updates   []capturedUpdate
	deleted   []model.DocID
}

func (s *captureStore) Subscribe(backend.SnapshotFunc, backend.ErrorFunc) (func(), error) {
	return func() {}, nil
}

func (s *captureStore) Add(p model.Project) (model.DocID, error) {
	if s.addErr != nil {
		return "", s.addErr
	}
	s.nextID++
	s.added = append(s.added, p)
	return model.DocID(fmt.Sprintf("doc-%d", s.nextID)), nil
}

func (s *captureStore) Update(id model.DocID, patches []backend.Patch) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, capturedUpdate{id: id, patches: patches})
	return nil
}

func (s *captureStore) Delete(id model.DocID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type captureBlob struct {
	err     error
	uploads []string
}

func (b *captureBlob) Upload(path string, data []byte) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.uploads = append(b.uploads, path)
	return "blob://" + path, nil
}

var testNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func TestCreateProjectWithoutFilesIsSingleWrite(t *testing.T) {
	store := &captureStore{}
	blob := &captureBlob{}

	in := createInput{
		Client:     "Família Souza",
		Address:    "Rua das Acácias, 123",
		StartDate:  "2023-11-02",
		Stages:     model.StageMap{"foundation": {Label: "Fundação", Active: true}},
		StageOrder: []string{"foundation"},
	}
	id, err := createProject(store, blob, in, testNow)
	if err != nil {
		t.Fatalf("createProject: %v", err)
	}
	if id.IsZero() || len(store.added) != 1 {
		t.Fatalf("id=%q added=%d", id, len(store.added))
	}
	if len(store.updates) != 0 {
		t.Fatalf("unexpected second write: %+v", store.updates)
	}
	if got := store.added[0]; got.Status != model.StatusPlanning || got.Progress != 0 {
		t.Fatalf("created doc = %+v", got)
	}
}

func TestCreateProjectWithFilesIsTwoStep(t *testing.T) {
	store := &captureStore{}
	blob := &captureBlob{}

	in := createInput{
		Client:    "Família Souza",
		Address:   "Rua das Acácias, 123",
		StartDate: "2023-11-02",
		Files: []localFile{
			{Name: "planta.pdf", Data: []byte("pdf")},
			{Name: "alvara.pdf", Data: []byte("pdf")},
		},
	}
	id, err := createProject(store, blob, in, testNow)
	if err != nil {
		t.Fatalf("createProject: %v", err)
	}
	if len(blob.uploads) != 2 {
		t.Fatalf("uploads = %v", blob.uploads)
	}
	if len(store.updates) != 1 || store.updates[0].id != id {
		t.Fatalf("second write = %+v", store.updates)
	}

	patches := store.updates[0].patches
	if len(patches) != 2 {
		t.Fatalf("patches = %+v", patches)
	}
	if patches[0].FieldPath != "projectFiles" {
		t.Fatalf("patch[0] = %+v", patches[0])
	}
	refs, ok := patches[0].Value.([]model.FileRef)
	if !ok || len(refs) != 2 || !strings.HasPrefix(refs[0].URL, "blob://") {
		t.Fatalf("file refs = %+v", patches[0].Value)
	}
	if patches[1].FieldPath != "status" || patches[1].Value != string(model.StatusActive) {
		t.Fatalf("patch[1] = %+v", patches[1])
	}
}

// A failure after the first write must leave the project in place: the
// creation is two documents writes, not one transaction.
func TestCreateProjectSecondWriteFailureKeepsProject(t *testing.T) {
	store := &captureStore{updateErr: errors.New("offline")}
	blob := &captureBlob{}

	in := createInput{
		Client:    "Família Souza",
		Address:   "Rua das Acácias, 123",
		StartDate: "2023-11-02",
		Files:     []localFile{{Name: "planta.pdf", Data: []byte("pdf")}},
	}
	id, err := createProject(store, blob, in, testNow)
	if err == nil {
		t.Fatalf("expected error")
	}
	if id.IsZero() || len(store.added) != 1 {
		t.Fatalf("first write lost: id=%q added=%d", id, len(store.added))
	}
	// The surviving project has no attached files and stays in planning.
	if store.added[0].Status != model.StatusPlanning || len(store.added[0].ProjectFiles) != 0 {
		t.Fatalf("surviving doc = %+v", store.added[0])
	}
}

func TestCreateProjectUploadFailureAbortsSecondWrite(t *testing.T) {
	store := &captureStore{}
	blob := &captureBlob{err: errors.New("disk full")}

	in := createInput{
		Client:    "Família Souza",
		Address:   "Rua das Acácias, 123",
		StartDate: "2023-11-02",
		Files:     []localFile{{Name: "planta.pdf", Data: []byte("pdf")}},
	}
	if _, err := createProject(store, blob, in, testNow); err == nil {
		t.Fatalf("expected error")
	}
	if len(store.updates) != 0 {
		t.Fatalf("second write ran despite upload failure: %+v", store.updates)
	}
}

// A stage-linked update with a progress value lands in one write carrying
// the diary entry, the stage's dotted-path patch and the recomputed
// overall progress.
func TestPostUpdateStageLinkedWriteShape(t *testing.T) {
	store := &captureStore{}
	blob := &captureBlob{}

	p := model.Project{
		ID: "obra-1",
		Stages: model.StageMap{
			"bricklayer": {Label: "Pedreiro", Active: true, Progress: 50},
			"painter":    {Label: "Pintor", Active: true, Progress: 30},
		},
	}
	in := updateInput{
		Role:        "bricklayer",
		Title:       "Alvenaria concluída no térreo",
		Progress:    80,
		HasProgress: true,
	}
	if err := postUpdate(store, blob, p, in, testNow); err != nil {
		t.Fatalf("postUpdate: %v", err)
	}
	if len(store.updates) != 1 {
		t.Fatalf("writes = %d, want 1", len(store.updates))
	}

	patches := store.updates[0].patches
	if len(patches) != 3 {
		t.Fatalf("patches = %+v", patches)
	}
	if patches[0].FieldPath != "updates" || !patches[0].ArrayUnion {
		t.Fatalf("patch[0] = %+v", patches[0])
	}
	entry, ok := patches[0].Value.(model.Update)
	if !ok || entry.Title != "Alvenaria concluída no térreo" || entry.Role != "bricklayer" {
		t.Fatalf("entry = %+v", patches[0].Value)
	}
	if patches[1].FieldPath != "stages.bricklayer.progress" || patches[1].Value != 80 {
		t.Fatalf("patch[1] = %+v", patches[1])
	}
	// round((80 + 30) / 2) = 55
	if patches[2].FieldPath != "progress" || patches[2].Value != 55 {
		t.Fatalf("patch[2] = %+v", patches[2])
	}
}

func TestPostUpdateUnlinkedRoleOnlyAppends(t *testing.T) {
	store := &captureStore{}
	blob := &captureBlob{}

	p := model.Project{
		ID:     "obra-1",
		Stages: model.StageMap{"bricklayer": {Label: "Pedreiro", Active: true, Progress: 50}},
	}

	// A base-catalogue role that isn't a stage never touches progress,
	// even with a progress value supplied.
	in := updateInput{Role: "architect", Title: "Visita técnica", Progress: 90, HasProgress: true}
	if err := postUpdate(store, blob, p, in, testNow); err != nil {
		t.Fatalf("postUpdate: %v", err)
	}
	if got := store.updates[0].patches; len(got) != 1 || got[0].FieldPath != "updates" {
		t.Fatalf("patches = %+v", got)
	}

	// Same for a linked role without a progress value.
	in = updateInput{Role: "bricklayer", Title: "Sem medição hoje"}
	if err := postUpdate(store, blob, p, in, testNow); err != nil {
		t.Fatalf("postUpdate: %v", err)
	}
	if got := store.updates[1].patches; len(got) != 1 {
		t.Fatalf("patches = %+v", got)
	}
}

func TestPostUpdatePhotosAndMilestone(t *testing.T) {
	store := &captureStore{}
	blob := &captureBlob{}

	p := model.Project{ID: "obra-1"}
	in := updateInput{
		Role:      "architect",
		Title:     "Laje concluída",
		Milestone: true,
		Photos: []localFile{
			{Name: "laje1.jpg", Data: []byte("jpg")},
			{Name: "laje2.jpg", Data: []byte("jpg")},
		},
	}
	if err := postUpdate(store, blob, p, in, testNow); err != nil {
		t.Fatalf("postUpdate: %v", err)
	}
	if len(blob.uploads) != 2 {
		t.Fatalf("uploads = %v", blob.uploads)
	}

	entry := store.updates[0].patches[0].Value.(model.Update)
	if entry.Type != model.UpdateMilestone {
		t.Fatalf("type = %q", entry.Type)
	}
	if len(entry.Photos) != 2 || !entry.HasMedia || entry.MediaCount != 2 {
		t.Fatalf("media fields = %+v", entry)
	}
}

// Deleting the project whose timeline is open navigates back to the
// dashboard instead of falling back to an arbitrary project.
func TestDeleteNavigatesAwayFromOpenTimeline(t *testing.T) {
	store := &captureStore{}
	m := newAppModel(Deps{Store: store, Ctrl: appsync.NewController(store, nil)})
	m.authed = true
	m.sess.NavigateTo(session.ViewTimeline, "doc-1")

	next, _ := m.handleMutationDone(mutationDoneMsg{op: opDeleteProject, deletedID: "doc-1"})
	got := next.(appModel)
	if got.sess.View != session.ViewDashboard {
		t.Fatalf("view = %q", got.sess.View)
	}

	// Deleting some other project keeps the open timeline.
	m.sess.NavigateTo(session.ViewTimeline, "doc-2")
	next, _ = m.handleMutationDone(mutationDoneMsg{op: opDeleteProject, deletedID: "doc-9"})
	got = next.(appModel)
	if got.sess.View != session.ViewTimeline || got.sess.ActiveProjectID != "doc-2" {
		t.Fatalf("session = %+v", got.sess)
	}
}
