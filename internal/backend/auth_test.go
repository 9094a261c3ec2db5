package backend

import (
	"errors"
	"testing"
)

func TestSignInFlow(t *testing.T) {
	a := NewLocalAuth(t.TempDir(), nil)
	if err := a.AddUser("Eng@Obralog.dev", "segredo"); err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	if err := a.SignIn("eng@obralog.dev", "errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if err := a.SignIn("ninguem@obralog.dev", "segredo"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}
	if a.Current() != nil {
		t.Fatalf("Current after failed sign-in = %+v", a.Current())
	}

	// Email matching is case-insensitive.
	if err := a.SignIn("ENG@obralog.dev", "segredo"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if cur := a.Current(); cur == nil || cur.Email != "eng@obralog.dev" {
		t.Fatalf("Current = %+v", a.Current())
	}

	if err := a.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if a.Current() != nil {
		t.Fatalf("Current after sign-out = %+v", a.Current())
	}
}

func TestOnAuthStateChanged(t *testing.T) {
	a := NewLocalAuth(t.TempDir(), nil)
	if err := a.AddUser("eng@obralog.dev", "segredo"); err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	var seen []*Identity
	cancel := a.OnAuthStateChanged(func(id *Identity) { seen = append(seen, id) })

	// Registration delivers the current (signed-out) state immediately.
	if len(seen) != 1 || seen[0] != nil {
		t.Fatalf("initial delivery = %+v", seen)
	}

	if err := a.SignIn("eng@obralog.dev", "segredo"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if len(seen) != 2 || seen[1] == nil || seen[1].Email != "eng@obralog.dev" {
		t.Fatalf("after sign-in: %+v", seen)
	}

	if err := a.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if len(seen) != 3 || seen[2] != nil {
		t.Fatalf("after sign-out: %+v", seen)
	}

	cancel()
	_ = a.SignIn("eng@obralog.dev", "segredo")
	if len(seen) != 3 {
		t.Fatalf("listener fired after cancel: %+v", seen)
	}
}
