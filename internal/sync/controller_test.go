package sync

import (
	"errors"
	"sync"
	"testing"
	"time"

	"obralog/internal/backend"
	"obralog/internal/model"
)

type fakeSub struct {
	onSnapshot backend.SnapshotFunc
	onError    backend.ErrorFunc
}

type fakeStore struct {
	mu           sync.Mutex
	nextID       int
	subs         map[int]fakeSub
	subscribeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{subs: map[int]fakeSub{}}
}

func (f *fakeStore) Subscribe(onSnapshot backend.SnapshotFunc, onError backend.ErrorFunc) (func(), error) {
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fakeSub{onSnapshot: onSnapshot, onError: onError}
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}, nil
}

func (f *fakeStore) Add(model.Project) (model.DocID, error)    { return "", nil }
func (f *fakeStore) Update(model.DocID, []backend.Patch) error { return nil }
func (f *fakeStore) Delete(model.DocID) error                  { return nil }

func (f *fakeStore) activeSubs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// push delivers a snapshot through every currently registered listener.
func (f *fakeStore) push(ps []model.Project) {
	f.mu.Lock()
	subs := make([]fakeSub, 0, len(f.subs))
	for _, s := range f.subs {
		subs = append(subs, s)
	}
	f.mu.Unlock()
	for _, s := range subs {
		s.onSnapshot(ps)
	}
}

func drain(c *Controller) {
	for {
		select {
		case <-c.Events():
		default:
			return
		}
	}
}

func waitMsg(t *testing.T, c *Controller) Msg {
	t.Helper()
	select {
	case m := <-c.Events():
		return m
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		return Msg{}
	}
}

func TestSnapshotReplacesMirrorWholesale(t *testing.T) {
	store := newFakeStore()
	c := NewController(store, nil)
	c.Subscribe()

	store.push([]model.Project{{ID: "a", Client: "A"}, {ID: "b", Client: "B"}})
	if m := waitMsg(t, c); m.Notice != "" {
		t.Fatalf("unexpected notice %q", m.Notice)
	}
	if got := c.Mirror(); len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("mirror = %+v", got)
	}

	// The next push replaces, never merges.
	store.push([]model.Project{{ID: "b", Client: "B"}})
	waitMsg(t, c)
	if got := c.Mirror(); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("mirror after replace = %+v", got)
	}
}

func TestRepeatedSignInsKeepOneSubscription(t *testing.T) {
	store := newFakeStore()
	c := NewController(store, nil)

	// First sign-in.
	c.Subscribe()
	store.mu.Lock()
	first := store.subs[0]
	store.mu.Unlock()

	// Second sign-in without an intervening teardown.
	c.Subscribe()
	if n := store.activeSubs(); n != 1 {
		t.Fatalf("active subscriptions = %d, want 1", n)
	}

	// Two successive pushes after the two sign-ins: the mirror follows the
	// live subscription's data with no duplicate entries.
	store.push([]model.Project{{ID: "x"}})
	store.push([]model.Project{{ID: "x"}, {ID: "y"}})
	drainUntilQuiet(c)
	if got := c.Mirror(); len(got) != 2 || got[0].ID != "x" || got[1].ID != "y" {
		t.Fatalf("mirror = %+v", got)
	}

	// A stale push from the superseded subscription must be ignored.
	first.onSnapshot([]model.Project{{ID: "stale"}})
	if got := c.Mirror(); len(got) != 2 {
		t.Fatalf("stale push changed the mirror: %+v", got)
	}
}

func TestTeardownClearsMirror(t *testing.T) {
	store := newFakeStore()
	c := NewController(store, nil)
	c.Subscribe()
	store.push([]model.Project{{ID: "a"}})
	drainUntilQuiet(c)

	c.Teardown()
	if c.Subscribed() {
		t.Fatalf("still subscribed after teardown")
	}
	if n := store.activeSubs(); n != 0 {
		t.Fatalf("active subscriptions = %d after teardown", n)
	}
	if got := c.Mirror(); len(got) != 0 {
		t.Fatalf("mirror not discarded: %+v", got)
	}
}

func TestPermissionErrorSuppressedAfterSignOut(t *testing.T) {
	store := newFakeStore()
	c := NewController(store, nil)
	c.Subscribe()
	store.mu.Lock()
	sub := store.subs[0]
	store.mu.Unlock()

	c.Teardown()
	drain(c)

	// The revoked subscription's trailing error stays silent.
	sub.onError(backend.ErrPermissionDenied)
	select {
	case m := <-c.Events():
		t.Fatalf("expected silence, got %+v", m)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOtherErrorsSurfaceNoticeAndKeepMirror(t *testing.T) {
	store := newFakeStore()
	c := NewController(store, nil)
	c.Subscribe()
	store.push([]model.Project{{ID: "a"}})
	drainUntilQuiet(c)

	store.mu.Lock()
	sub := store.subs[0]
	store.mu.Unlock()
	sub.onError(errors.New("network unreachable"))

	m := waitMsg(t, c)
	if m.Notice == "" {
		t.Fatalf("expected a user-visible notice")
	}
	if got := c.Mirror(); len(got) != 1 {
		t.Fatalf("mirror must survive a subscription error: %+v", got)
	}
}

func TestSubscribeFailureSurfacesNotice(t *testing.T) {
	store := newFakeStore()
	store.subscribeErr = errors.New("boom")
	c := NewController(store, nil)
	c.Subscribe()
	if c.Subscribed() {
		t.Fatalf("subscribed despite error")
	}
	if m := waitMsg(t, c); m.Notice == "" {
		t.Fatalf("expected notice, got %+v", m)
	}
}

func TestBindFollowsAuthState(t *testing.T) {
	store := newFakeStore()
	c := NewController(store, nil)
	auth := &fakeAuthProvider{}
	cancel := c.Bind(auth)
	defer cancel()

	auth.set(&backend.Identity{Email: "eng@obralog.dev"})
	if !c.Subscribed() || store.activeSubs() != 1 {
		t.Fatalf("sign-in did not subscribe")
	}

	auth.set(nil)
	if c.Subscribed() || store.activeSubs() != 0 {
		t.Fatalf("sign-out did not tear down")
	}

	// Second cycle: still exactly one subscription.
	auth.set(&backend.Identity{Email: "eng@obralog.dev"})
	if store.activeSubs() != 1 {
		t.Fatalf("active subscriptions = %d", store.activeSubs())
	}
}

func drainUntilQuiet(c *Controller) {
	for {
		select {
		case <-c.Events():
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

type fakeAuthProvider struct {
	mu        sync.Mutex
	current   *backend.Identity
	listeners []func(*backend.Identity)
}

func (f *fakeAuthProvider) SignIn(string, string) error { return nil }
func (f *fakeAuthProvider) SignOut() error              { return nil }

func (f *fakeAuthProvider) Current() *backend.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeAuthProvider) OnAuthStateChanged(fn func(*backend.Identity)) func() {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	cur := f.current
	f.mu.Unlock()
	fn(cur)
	return func() {}
}

func (f *fakeAuthProvider) set(id *backend.Identity) {
	f.mu.Lock()
	f.current = id
	fns := append([]func(*backend.Identity){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}
