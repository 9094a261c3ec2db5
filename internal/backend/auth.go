package backend

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const usersFileName = "users.json"

// LocalAuth is a file-backed AuthProvider: a JSON map of email to bcrypt
// hash under the workspace dir. Accounts are created with the CLI
// (`obralog users add`); the TUI only signs in against them.
type LocalAuth struct {
	dir string
	log *zap.Logger

	mu        sync.Mutex
	current   *Identity
	nextSub   int
	listeners map[int]func(*Identity)
}

func NewLocalAuth(dir string, log *zap.Logger) *LocalAuth {
	if log == nil {
		log = zap.NewNop()
	}
	return &LocalAuth{
		dir:       dir,
		log:       log,
		listeners: map[int]func(*Identity){},
	}
}

func (a *LocalAuth) usersPath() string { return filepath.Join(a.dir, usersFileName) }

func (a *LocalAuth) loadUsers() (map[string]string, error) {
	data, err := os.ReadFile(a.usersPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	users := map[string]string{}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse %s: %w", usersFileName, err)
	}
	return users, nil
}

// AddUser registers an account (or resets its password).
func (a *LocalAuth) AddUser(email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}
	users, err := a.loadUsers()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	users[email] = string(hash)

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(a.usersPath(), data, 0o600)
}

func (a *LocalAuth) SignIn(email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := a.loadUsers()
	if err != nil {
		return err
	}
	hash, ok := users[email]
	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	a.mu.Lock()
	a.current = &Identity{Email: email}
	a.log.Info("signed in", zap.String("email", email))
	a.notifyLocked()
	a.mu.Unlock()
	return nil
}

func (a *LocalAuth) SignOut() error {
	a.mu.Lock()
	if a.current != nil {
		a.log.Info("signed out", zap.String("email", a.current.Email))
	}
	a.current = nil
	a.notifyLocked()
	a.mu.Unlock()
	return nil
}

func (a *LocalAuth) Current() *Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil
	}
	id := *a.current
	return &id
}

func (a *LocalAuth) OnAuthStateChanged(fn func(*Identity)) (cancel func()) {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.listeners[id] = fn
	cur := a.current
	a.mu.Unlock()

	// Deliver the current state immediately, like the managed provider does
	// at startup.
	fn(cloneIdentity(cur))

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *LocalAuth) notifyLocked() {
	cur := a.current
	for _, fn := range a.listeners {
		fn(cloneIdentity(cur))
	}
}

func cloneIdentity(id *Identity) *Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
