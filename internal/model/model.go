package model

import (
	"sort"
	"strings"
	"time"
)

// DocID is an opaque handle for a store-issued document id.
//
// The store issues string ids; keeping the type opaque avoids the
// int-vs-string id drift between seeded fixtures and live documents.
type DocID string

func (id DocID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

type Status string

const (
	StatusPlanning Status = "Planejamento"
	StatusActive   Status = "Em Andamento"
	StatusDone     Status = "Concluído"
)

// Stage is one independently tracked portion of project work.
type Stage struct {
	Label    string `json:"label"`
	Active   bool   `json:"active"`
	Progress int    `json:"progress"` // 0–100
}

// StageMap maps a stable stage key (e.g. "bricklayer", "custom_17123...")
// to its stage. Keys are unique within a project.
type StageMap map[string]Stage

type UpdateType string

const (
	UpdateProgress  UpdateType = "progress"
	UpdateMilestone UpdateType = "milestone"
)

// Update is one diary ("Diário de Obra") entry. Updates are append-only
// within a project; display order is by date descending.
type Update struct {
	ID          string     `json:"id"` // timestamp-derived
	Date        string     `json:"date"`
	Role        string     `json:"role,omitempty"` // stage key, optional
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Photos      []string   `json:"photos,omitempty"`
	MediaCount  int        `json:"mediaCount,omitempty"`
	HasMedia    bool       `json:"hasMedia"`
	Type        UpdateType `json:"type"`
	Author      string     `json:"author,omitempty"`
}

// FileRef is a reference document attached at project-creation time.
type FileRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Project ("obra") is a tracked construction job.
type Project struct {
	ID        DocID  `json:"id"`
	Client    string `json:"client"`
	Address   string `json:"address"`
	Status    Status `json:"status"`
	StartDate string `json:"startDate"` // YYYY-MM-DD

	// Progress is a derived, persisted cache: round(mean(active stage
	// progress)). It is recomputed and overwritten whenever a stage's
	// progress changes, never adjusted incrementally.
	Progress int `json:"progress"`

	Stages StageMap `json:"stages,omitempty"`
	// StageOrder preserves the creation-time ordering of stage keys
	// (Go maps don't keep insertion order). Keys missing from the list
	// render after it, alphabetically.
	StageOrder []string `json:"stageOrder,omitempty"`

	Updates      []Update  `json:"updates,omitempty"`
	ProjectFiles []FileRef `json:"projectFiles,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// OrderedStageKeys returns stage keys in StageOrder, followed by any keys
// the order list doesn't know about (sorted, so renders stay deterministic).
func (p *Project) OrderedStageKeys() []string {
	seen := make(map[string]bool, len(p.Stages))
	keys := make([]string, 0, len(p.Stages))
	for _, k := range p.StageOrder {
		if _, ok := p.Stages[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range p.Stages {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// SortedUpdates returns the diary entries by date descending. Ties keep
// their original relative order (stable), so same-day posts don't reshuffle
// between renders.
func (p *Project) SortedUpdates() []Update {
	out := make([]Update, len(p.Updates))
	copy(out, p.Updates)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// FindProject resolves an id against a mirror snapshot.
func FindProject(mirror []Project, id DocID) (*Project, bool) {
	for i := range mirror {
		if mirror[i].ID == id {
			return &mirror[i], true
		}
	}
	return nil, false
}
