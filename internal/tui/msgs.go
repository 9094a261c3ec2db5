package tui

import (
	"obralog/internal/model"
	appsync "obralog/internal/sync"
)

// syncMsg wakes the UI when the controller replaced the mirror or has a
// notice to show.
type syncMsg appsync.Msg

// loginDoneMsg carries the result of the sign-in command.
type loginDoneMsg struct {
	err error
}

// mutationDoneMsg carries the result of a write command (create project,
// post diary update, delete project).
type mutationDoneMsg struct {
	op        mutationOp
	err       error
	deletedID model.DocID
}

type mutationOp string

const (
	opCreateProject mutationOp = "create_project"
	opPostUpdate    mutationOp = "post_update"
	opDeleteProject mutationOp = "delete_project"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNewProject
	modalNewUpdate
	modalConfirmDelete
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)
