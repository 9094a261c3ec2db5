// Package backend defines the narrow contracts the application consumes:
// an email/password auth provider, a document store with live snapshot
// subscriptions, and a blob store for photo/file uploads. Everything else
// in the app talks to these interfaces, never to an implementation.
package backend

import (
	"errors"

	"obralog/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("document not found")
)

// Identity is the signed-in user, or absent (nil) when signed out.
type Identity struct {
	Email string
}

// AuthProvider mirrors the managed-auth surface: sign-in/sign-out plus a
// state-change signal delivered at registration and on every change.
type AuthProvider interface {
	SignIn(email, password string) error
	SignOut() error
	// OnAuthStateChanged registers a listener. It is invoked immediately
	// with the current identity (possibly nil), then on every change.
	OnAuthStateChanged(fn func(*Identity)) (cancel func())
	Current() *Identity
}

// Patch addresses one document field by dotted path
// (e.g. "stages.electrician.progress").
type Patch struct {
	FieldPath string
	Value     any
	// ArrayUnion appends Value to the sequence at FieldPath instead of
	// replacing it (atomic append for the updates list).
	ArrayUnion bool
}

type (
	SnapshotFunc func(projects []model.Project)
	ErrorFunc    func(err error)
)

// DocumentStore is the project collection. Subscriptions deliver the full
// current result set (not deltas) ordered by creation time descending, on
// registration and after every change.
type DocumentStore interface {
	Subscribe(onSnapshot SnapshotFunc, onError ErrorFunc) (cancel func(), err error)
	Add(p model.Project) (model.DocID, error)
	Update(id model.DocID, patches []Patch) error
	Delete(id model.DocID) error
}

// BlobStore stores uploaded binaries and issues retrievable URLs.
type BlobStore interface {
	Upload(path string, data []byte) (url string, err error)
}
