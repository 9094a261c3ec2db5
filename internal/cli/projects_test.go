package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"obralog/internal/backend"
	"obralog/internal/model"
)

func TestProjectsListNewestFirst(t *testing.T) {
	dir := t.TempDir()

	store, err := backend.OpenSQLiteStore(dir, nil, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.Add(model.Project{
		Client: "Família Souza", Address: "Rua das Acácias, 123",
		Status: model.StatusActive, StartDate: "2023-11-02", Progress: 40,
		CreatedAt: time.Date(2023, 11, 2, 8, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.Add(model.Project{
		Client: "Condomínio Atlântico", Address: "Av. Beira-Mar, 900",
		Status: model.StatusPlanning, StartDate: "2024-02-01",
		CreatedAt: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var buf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"projects", "list", "--dir", dir})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v\n%s", err, buf.String())
	}

	var got []projectSummary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if len(got) != 2 {
		t.Fatalf("projects = %+v", got)
	}
	if got[0].Client != "Condomínio Atlântico" || got[1].Client != "Família Souza" {
		t.Fatalf("order = %+v", got)
	}
	if got[0].Status != "Planejamento" || got[1].Progress != 40 {
		t.Fatalf("fields = %+v", got)
	}
	if got[1].StartDate != "02 nov 2023" {
		t.Fatalf("startDate = %q", got[1].StartDate)
	}
}
