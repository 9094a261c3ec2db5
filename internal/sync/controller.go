// Package sync owns the project mirror: the in-memory, wholesale-replaced
// copy of the external store's collection. The controller is the single
// writer to the mirror; everything else reads it.
package sync

import (
	"errors"
	"sync"

	"obralog/internal/backend"
	"obralog/internal/model"

	"go.uber.org/zap"
)

// Msg wakes the UI. An empty Notice means the mirror was replaced and the
// view should re-render; a non-empty Notice is a user-visible error.
type Msg struct {
	Notice string
}

// Controller subscribes to the document store while a session is active and
// replaces the mirror on every pushed snapshot. Lifecycle follows the auth
// state: sign-in subscribes (tearing down any previous subscription first),
// sign-out unsubscribes and discards the mirror.
type Controller struct {
	store  backend.DocumentStore
	log    *zap.Logger
	events chan Msg

	mu     sync.RWMutex
	mirror []model.Project
	cancel func()
	active bool
	// gen invalidates callbacks from a superseded subscription so a stale
	// push can never overwrite the current subscription's mirror.
	gen int
}

func NewController(store backend.DocumentStore, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store:  store,
		log:    log,
		events: make(chan Msg, 16),
	}
}

// Events is the UI wake-up channel.
func (c *Controller) Events() <-chan Msg { return c.events }

// Bind ties the subscription lifecycle to the auth provider.
func (c *Controller) Bind(auth backend.AuthProvider) (cancel func()) {
	return auth.OnAuthStateChanged(func(id *backend.Identity) {
		if id != nil {
			c.Subscribe()
		} else {
			c.Teardown()
		}
	})
}

// Subscribe starts (or restarts) the live subscription. Any existing
// subscription is torn down first so repeated login/logout cycles never
// accumulate duplicate listeners.
func (c *Controller) Subscribe() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	gen := c.gen
	c.active = true
	c.mu.Unlock()

	cancel, err := c.store.Subscribe(
		func(ps []model.Project) { c.onSnapshot(gen, ps) },
		func(err error) { c.onError(gen, err) },
	)
	if err != nil {
		c.mu.Lock()
		c.active = false
		c.mu.Unlock()
		c.log.Error("subscribe failed", zap.Error(err))
		c.send(Msg{Notice: "Erro ao carregar obras. Verifique sua conexão."})
		return
	}

	c.mu.Lock()
	if gen != c.gen || !c.active {
		// Superseded while we were subscribing.
		c.mu.Unlock()
		cancel()
		return
	}
	c.cancel = cancel
	c.mu.Unlock()
}

// Teardown cancels the subscription and discards the mirror.
func (c *Controller) Teardown() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.active = false
	c.gen++
	c.mirror = nil
	c.mu.Unlock()
	c.send(Msg{})
}

func (c *Controller) onSnapshot(gen int, projects []model.Project) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.mirror = projects
	c.mu.Unlock()
	c.send(Msg{})
}

func (c *Controller) onError(gen int, err error) {
	c.mu.RLock()
	stale := gen != c.gen || !c.active
	c.mu.RUnlock()

	// Permission errors during/after sign-out are the store revoking a
	// dying subscription; they are expected and stay silent.
	if errors.Is(err, backend.ErrPermissionDenied) && stale {
		c.log.Debug("suppressed permission error after sign-out", zap.Error(err))
		return
	}
	// Anything else surfaces a notice; the last-known mirror stays in
	// place and the store's client handles reconnection.
	c.log.Error("subscription error", zap.Error(err))
	c.send(Msg{Notice: "Erro ao carregar obras. Verifique sua conexão."})
}

func (c *Controller) send(m Msg) {
	select {
	case c.events <- m:
	default:
		// The UI re-reads the mirror on every wake-up, so dropping a
		// ping under backpressure loses nothing.
		c.log.Warn("event channel full, dropped", zap.String("notice", m.Notice))
	}
}

// Mirror returns a copy of the current snapshot, in store order.
func (c *Controller) Mirror() []model.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Project, len(c.mirror))
	copy(out, c.mirror)
	return out
}

// Project re-resolves an id against the current mirror. Mutation handlers
// call this after every suspension point instead of closing over a
// pre-suspension snapshot.
func (c *Controller) Project(id model.DocID) (model.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.mirror {
		if c.mirror[i].ID == id {
			return c.mirror[i], true
		}
	}
	return model.Project{}, false
}

func (c *Controller) Subscribed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}
