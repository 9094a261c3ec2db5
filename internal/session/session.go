// Package session holds the process-local navigation state: current view,
// selected project and admin/client mode. None of it is persisted.
package session

import "obralog/internal/model"

type View string

const (
	ViewDashboard View = "dashboard"
	ViewTimeline  View = "timeline"
)

type Mode string

const (
	ModeAdmin  Mode = "admin"
	ModeClient Mode = "client"
)

// State is mutated only by navigation and mode-switch actions. Transitions
// never validate that ActiveProjectID still exists in the mirror; the
// renderer resolves it lazily because the mirror can change underneath.
type State struct {
	View            View
	ActiveProjectID model.DocID
	Mode            Mode
}

func New() State {
	return State{View: ViewDashboard, Mode: ModeAdmin}
}

// NavigateTo sets the view; a non-zero id also selects the project.
func (s *State) NavigateTo(v View, id model.DocID) {
	s.View = v
	if !id.IsZero() {
		s.ActiveProjectID = id
	}
}

func (s *State) SetMode(m Mode) { s.Mode = m }

// Reset restores the post-sign-out defaults. The mode survives sign-out so
// a client demoing the read-only view isn't bounced back to admin.
func (s *State) Reset() {
	s.View = ViewDashboard
	s.ActiveProjectID = ""
}
