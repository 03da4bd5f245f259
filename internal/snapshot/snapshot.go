// Package snapshot persists grammar.Repository snapshots to a sqlite file,
// so a long-running session can checkpoint its grammar before a risky
// mutation (a plug-in's Initialize, a preprocess block editing the grammar
// at compile time) and restore it if the result turns out broken.
//
// Grounded on server/dao/sqlite's store/*DB shape (one *sql.DB, a small
// table, an init() that issues CREATE TABLE IF NOT EXISTS, wrapDBError
// translating a modernc.org/sqlite error into a sentinel) — here
// generalized from the teacher's per-entity Create/GetByID/GetAll/Update
// DAO surface to a single Save/Restore/List/Delete repository, and from
// dekarrin/rezi's EncBinary/DecBinary (used there to store a *game.State
// BLOB column) to encoding/gob, since rezi is a hand-rolled codec nothing
// else in the example pack needs.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/alusus-go/corelang/internal/grammar"
)

// ErrNotFound is returned when no snapshot exists under the requested ID.
var ErrNotFound = errors.New("snapshot: not found")

// Record describes a stored snapshot without loading its grammar payload.
type Record struct {
	ID      uuid.UUID
	Label   string
	Created time.Time
}

// Store is a sqlite-backed table of grammar.Repository snapshots.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a sqlite database at path and ensures
// its snapshots table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	const stmt = `CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT NOT NULL PRIMARY KEY,
		label TEXT NOT NULL,
		data BLOB NOT NULL,
		created INTEGER NOT NULL
	);`
	if _, err := s.db.Exec(stmt); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save gob-encodes repo and stores it labeled, returning the new
// snapshot's ID.
func (s *Store) Save(ctx context.Context, label string, repo *grammar.Repository) (uuid.UUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("snapshot: generating ID: %w", err)
	}

	data, err := repo.GobEncode()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("snapshot: encoding repository: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, label, data, created) VALUES (?, ?, ?, ?)`,
		id.String(), label, data, time.Now().Unix(),
	)
	if err != nil {
		return uuid.UUID{}, wrapDBError(err)
	}
	return id, nil
}

// Restore loads the snapshot stored under id into a fresh
// grammar.Repository.
func (s *Store) Restore(ctx context.Context, id uuid.UUID) (*grammar.Repository, error) {
	var data []byte
	row := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE id = ?;`, id.String())
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(err)
	}

	repo := grammar.NewRepository()
	if err := repo.GobDecode(data); err != nil {
		return nil, fmt.Errorf("snapshot: decoding repository: %w", err)
	}
	return repo, nil
}

// List returns every stored snapshot's metadata, most recently created
// first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label, created FROM snapshots ORDER BY created DESC, rowid DESC;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var idStr string
		var rec Record
		var created int64
		if err := rows.Scan(&idStr, &rec.Label, &created); err != nil {
			return nil, wrapDBError(err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("snapshot: stored id %q is invalid: %w", idStr, err)
		}
		rec.ID = id
		rec.Created = time.Unix(created, 0)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}
	return out, nil
}

// Delete removes the snapshot stored under id. It is not an error to
// delete one that does not exist.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?;`, id.String())
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("snapshot: %s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	return fmt.Errorf("snapshot: %w", err)
}
