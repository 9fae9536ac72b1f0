package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"case-cli/internal/logging"
	"case-cli/internal/model"
	"case-cli/internal/outline"
	"case-cli/internal/tree"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// stateVersion is the layout of the nodes table and state_meta keys.
const stateVersion = 1

// Store persists one outline in <Dir>/case.sqlite.
type Store struct {
	Dir       string
	ReplicaID string
	Log       logrus.FieldLogger
}

// Meta is the bookkeeping recorded with every save.
type Meta struct {
	Version   int       `json:"version"`
	Revision  int       `json:"revision"`
	ReplicaID string    `json:"replicaId,omitempty"`
	SavedAt   time.Time `json:"savedAt"`
	Nodes     int       `json:"nodes"`
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: empty dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string { return filepath.Join(s.Dir, sqliteFileName) }

func (s Store) log() logrus.FieldLogger {
	if s.Log == nil {
		return logging.Discard()
	}
	return s.Log
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// Pragmas are per connection; one connection keeps them in force for
	// every statement below.
	db.SetMaxOpenConns(1)
	// WAL allows the TUI and a CLI invocation to share the file; busy_timeout
	// avoids "database is locked" on concurrent saves.
	pragmas := []string{
		"PRAGMA busy_timeout=5000;",
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS nodes (
			handle TEXT PRIMARY KEY,
			idx INTEGER NOT NULL UNIQUE,
			gen INTEGER NOT NULL,
			parent TEXT NOT NULL,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			children_json TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent, position);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports whether a database has been created in Dir.
func (s Store) Exists() bool {
	_, err := os.Stat(s.sqlitePath())
	return err == nil
}

// Load reads the saved outline. A database that has never been saved to
// yields outline.New().
func (s Store) Load(ctx context.Context) (*outline.Outline, error) {
	snap, saved, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !saved {
		s.log().WithFields(logrus.Fields{"op": "load", "dir": s.Dir}).Debug("no saved outline, seeding inbox")
		return outline.New(), nil
	}
	o, err := outline.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.sqlitePath(), err)
	}
	s.log().WithFields(logrus.Fields{"op": "load", "nodes": o.Len()}).Debug("outline loaded")
	return o, nil
}

func (s Store) loadSnapshot(ctx context.Context) (tree.Snapshot[model.Entry], bool, error) {
	var snap tree.Snapshot[model.Entry]
	db, err := s.openSQLite(ctx)
	if err != nil {
		return snap, false, err
	}
	defer db.Close()

	meta, err := readMeta(ctx, db)
	if err != nil {
		return snap, false, err
	}
	if meta["version"] == "" {
		return snap, false, nil
	}
	if v, err := strconv.Atoi(meta["version"]); err != nil || v > stateVersion {
		return snap, false, fmt.Errorf("unsupported state version %q", meta["version"])
	}

	if root := meta["root"]; root != "" {
		h, err := tree.ParseHandle(root)
		if err != nil {
			return snap, false, fmt.Errorf("state_meta root: %w", err)
		}
		snap.Root = &h
	}
	if free := meta["free"]; free != "" {
		if err := json.Unmarshal([]byte(free), &snap.Free); err != nil {
			return snap, false, fmt.Errorf("state_meta free: %w", err)
		}
	}

	rows, err := db.QueryContext(ctx, `SELECT handle, parent, children_json, json FROM nodes ORDER BY idx`)
	if err != nil {
		return snap, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var handle, parent, children, js string
		if err := rows.Scan(&handle, &parent, &children, &js); err != nil {
			return snap, false, err
		}
		n, err := decodeNodeRow(handle, parent, children, js)
		if err != nil {
			return snap, false, err
		}
		snap.Nodes = append(snap.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return snap, false, err
	}
	return snap, true, nil
}

func decodeNodeRow(handle, parent, children, js string) (tree.SnapshotNode[model.Entry], error) {
	var n tree.SnapshotNode[model.Entry]
	h, err := tree.ParseHandle(handle)
	if err != nil {
		return n, err
	}
	n.Handle = h
	if parent != "" {
		p, err := tree.ParseHandle(parent)
		if err != nil {
			return n, fmt.Errorf("node %s parent: %w", handle, err)
		}
		n.Parent = &p
	}
	if err := json.Unmarshal([]byte(children), &n.Children); err != nil {
		return n, fmt.Errorf("node %s children: %w", handle, err)
	}
	if err := json.Unmarshal([]byte(js), &n.Data); err != nil {
		return n, fmt.Errorf("node %s entry: %w", handle, err)
	}
	return n, nil
}

// Save replaces the stored outline with o in one transaction.
func (s Store) Save(ctx context.Context, o *outline.Outline) error {
	if o == nil {
		return errors.New("nil outline")
	}
	snap := o.Snapshot()

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	revision, err := bumpRevision(ctx, tx)
	if err != nil {
		return err
	}

	root := ""
	if snap.Root != nil {
		root = snap.Root.String()
	}
	free, err := json.Marshal(snap.Free)
	if err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	meta := [][2]string{
		{"version", strconv.Itoa(stateVersion)},
		{"root", root},
		{"free", string(free)},
		{"replica_id", strings.TrimSpace(s.ReplicaID)},
		{"saved_at_unixms", strconv.FormatInt(nowMs, 10)},
	}
	for _, kv := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, kv[0], kv[1]); err != nil {
			return err
		}
	}

	// Replace-all: the outline is small and the snapshot is authoritative.
	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return err
	}

	positions := map[tree.Handle]int{}
	for _, n := range snap.Nodes {
		for i, c := range n.Children {
			positions[c] = i
		}
	}
	for _, n := range snap.Nodes {
		raw, err := json.Marshal(n.Data)
		if err != nil {
			return err
		}
		children, err := json.Marshal(n.Children)
		if err != nil {
			return err
		}
		parent := ""
		if n.Parent != nil {
			parent = n.Parent.String()
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO nodes(
			handle, idx, gen, parent, position, kind, title, children_json, json, updated_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.Handle.String(), n.Handle.Index(), n.Handle.Generation(), parent, positions[n.Handle],
			string(n.Data.Kind), n.Data.Title(), string(children), string(raw), nowMs,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log().WithFields(logrus.Fields{"op": "save", "nodes": len(snap.Nodes), "revision": revision}).Info("outline saved")
	return nil
}

// Meta returns the bookkeeping of the last save. Zero if never saved.
func (s Store) Meta(ctx context.Context) (Meta, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return Meta{}, err
	}
	defer db.Close()

	kv, err := readMeta(ctx, db)
	if err != nil {
		return Meta{}, err
	}
	var m Meta
	m.Version, _ = strconv.Atoi(kv["version"])
	m.Revision, _ = strconv.Atoi(kv["revision"])
	m.ReplicaID = kv["replica_id"]
	if ms, err := strconv.ParseInt(kv["saved_at_unixms"], 10, 64); err == nil {
		m.SavedAt = time.UnixMilli(ms).UTC()
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM nodes`).Scan(&m.Nodes); err != nil {
		return Meta{}, err
	}
	return m, nil
}

// bumpRevision increments the stored revision and returns the new value. It
// must be the first statement of the save transaction: writing first takes
// the write lock, so no other save can read the same revision.
func bumpRevision(ctx context.Context, tx *sql.Tx) (int, error) {
	if _, err := tx.ExecContext(ctx, `INSERT INTO state_meta(k, v) VALUES('revision', '1')
		ON CONFLICT(k) DO UPDATE SET v = CAST(v AS INTEGER) + 1`); err != nil {
		return 0, err
	}
	var v string
	if err := tx.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = 'revision'`).Scan(&v); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(v))
}

func readMeta(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT k, v FROM state_meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, rows.Err()
}
