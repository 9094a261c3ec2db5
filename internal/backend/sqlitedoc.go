package backend

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"obralog/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const docDBFileName = "obralog.sqlite"

// Authorizer gates store access. Writes and subscriptions require a
// signed-in identity; a nil Authorizer disables the gate (local CLI
// tooling operating on its own workspace file).
type Authorizer interface {
	Current() *Identity
}

// SQLiteStore is the local DocumentStore: one row per project, the document
// as JSON, ordered by creation time descending. Every successful write
// re-reads the collection and pushes the full result set to all
// subscribers, mirroring the managed store's snapshot semantics.
type SQLiteStore struct {
	db   *sql.DB
	auth Authorizer
	log  *zap.Logger

	mu      sync.Mutex
	nextSub int
	subs    map[int]subscriber
}

type subscriber struct {
	onSnapshot SnapshotFunc
	onError    ErrorFunc
}

func OpenSQLiteStore(dir string, auth Authorizer, log *zap.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(dir, docDBFileName))
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when the CLI and TUI share a workspace.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	schema := `CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		doc        TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteStore{
		db:   db,
		auth: auth,
		log:  log,
		subs: map[int]subscriber{},
	}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) signedIn() bool {
	return s.auth == nil || s.auth.Current() != nil
}

// Subscribe registers a snapshot listener and asynchronously delivers the
// current result set. The returned cancel tears the listener down.
func (s *SQLiteStore) Subscribe(onSnapshot SnapshotFunc, onError ErrorFunc) (func(), error) {
	if !s.signedIn() {
		return nil, ErrPermissionDenied
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = subscriber{onSnapshot: onSnapshot, onError: onError}
	s.mu.Unlock()

	go s.deliverTo(id)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}, nil
}

func (s *SQLiteStore) Add(p model.Project) (model.DocID, error) {
	if !s.signedIn() {
		return "", ErrPermissionDenied
	}
	id := model.DocID(uuid.NewString())
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.ID = "" // the id lives in its own column, not in the document
	doc, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(
		`INSERT INTO projects(id, doc, created_at) VALUES(?, ?, ?)`,
		string(id), string(doc), p.CreatedAt.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("add project: %w", err)
	}
	s.log.Info("project added", zap.String("id", string(id)))
	s.notify()
	return id, nil
}

func (s *SQLiteStore) Update(id model.DocID, patches []Patch) error {
	if !s.signedIn() {
		return ErrPermissionDenied
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRow(`SELECT doc FROM projects WHERE id = ?`, string(id)).Scan(&raw)
	if err == sql.ErrNoRows {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}

	doc := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("decode doc %s: %w", id, err)
	}
	for _, p := range patches {
		if err := applyPatch(doc, p); err != nil {
			return fmt.Errorf("patch %s: %w", p.FieldPath, err)
		}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE projects SET doc = ? WHERE id = ?`, string(out), string(id)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Info("project updated", zap.String("id", string(id)), zap.Int("patches", len(patches)))
	s.notify()
	return nil
}

func (s *SQLiteStore) Delete(id model.DocID) error {
	if !s.signedIn() {
		return ErrPermissionDenied
	}
	// Deleting an absent document succeeds, like the managed store.
	if _, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, string(id)); err != nil {
		return err
	}
	s.log.Info("project deleted", zap.String("id", string(id)))
	s.notify()
	return nil
}

// List reads the collection once, creation time descending. Used by the
// scriptable CLI; the TUI consumes snapshots via Subscribe instead.
func (s *SQLiteStore) List() ([]model.Project, error) {
	rows, err := s.db.Query(`SELECT id, doc FROM projects ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Project{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var p model.Project
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode doc %s: %w", id, err)
		}
		p.ID = model.DocID(id)
		out = append(out, p)
	}
	return out, rows.Err()
}

// deliverTo pushes the current snapshot to one subscriber.
func (s *SQLiteStore) deliverTo(id int) {
	s.mu.Lock()
	sub, ok := s.subs[id]
	s.mu.Unlock()
	if !ok {
		return
	}
	s.push(sub)
}

// notify fans the current result set out to every subscriber. If the
// session ended between the write and the fan-out, subscribers get the
// permission error the managed store would send.
func (s *SQLiteStore) notify() {
	s.mu.Lock()
	subs := make([]subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		s.push(sub)
	}
}

func (s *SQLiteStore) push(sub subscriber) {
	if !s.signedIn() {
		if sub.onError != nil {
			sub.onError(ErrPermissionDenied)
		}
		return
	}
	projects, err := s.List()
	if err != nil {
		s.log.Error("snapshot load failed", zap.Error(err))
		if sub.onError != nil {
			sub.onError(err)
		}
		return
	}
	if sub.onSnapshot != nil {
		sub.onSnapshot(projects)
	}
}

// applyPatch sets (or array-appends) the value at a dotted path, creating
// intermediate objects as needed.
func applyPatch(doc map[string]any, p Patch) error {
	path := strings.TrimSpace(p.FieldPath)
	if path == "" {
		return fmt.Errorf("empty field path")
	}
	segs := strings.Split(path, ".")
	cur := doc
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			if cur[seg] != nil {
				return fmt.Errorf("segment %q is not an object", seg)
			}
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	last := segs[len(segs)-1]

	val, err := toJSONValue(p.Value)
	if err != nil {
		return err
	}
	if p.ArrayUnion {
		existing, ok := cur[last].([]any)
		if !ok && cur[last] != nil {
			return fmt.Errorf("segment %q is not a sequence", last)
		}
		cur[last] = append(existing, val)
		return nil
	}
	cur[last] = val
	return nil
}

// toJSONValue normalizes typed values (model.Update etc.) into the plain
// maps/slices the document representation uses.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
