// Package tracking persists the last watched episode of every (anime, season) pair in SQLite
package tracking

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alvarorichard/animesama-cli/internal/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// IsCgoEnabled indicates whether CGO is enabled for SQLite support
var IsCgoEnabled = true

var (
	ErrCgoDisabled = errors.New("CGO disabled: sqlite history not available")
	ErrNotFound    = errors.New("history entry not found")
)

const (
	busyTimeout       = 5000 // ms
	walAutoCheckpoint = 1000 // pages
	avgEntries        = 64

	// timestampLayout sorts lexically and parses back through go-sqlite3's DATETIME handling
	timestampLayout = "2006-01-02 15:04:05.000"
)

// Outcome tells the caller whether Upsert created or refreshed a row
type Outcome int

const (
	Inserted Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Store is the history database. One handle serves the whole process.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func dsn(dbPath string) string {
	if runtime.GOOS == "windows" {
		dbPath = strings.ReplaceAll(dbPath, "\\", "/")
	}
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_wal_autocheckpoint=%d&_busy_timeout=%d",
		dbPath, walAutoCheckpoint, busyTimeout)
}

// Open creates the parent directory if needed, opens the database and brings its schema up to date
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if !IsCgoEnabled {
		return nil, ErrCgoDisabled
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, errors.Wrap(err, "failed to create data directory")
	}

	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open history database")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to open history database")
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(timestampLayout)
}

// Upsert records that episode was watched. A row already present for
// (animeName, season) gets its episode, url and timestamp replaced.
func (s *Store) Upsert(ctx context.Context, animeName, episode, season, url string) (Outcome, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM history WHERE anime_name = ? AND saison = ? ORDER BY id LIMIT 1`,
		animeName, season).Scan(&id)

	switch {
	case err == nil:
		if _, err := s.db.ExecContext(ctx,
			`UPDATE history SET episode = ?, url = ?, timestamp = ? WHERE id = ?`,
			episode, url, s.stamp(), id); err != nil {
			return 0, errors.Wrap(err, "history update failed")
		}
		return Updated, nil
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO history (anime_name, episode, saison, url, timestamp) VALUES (?, ?, ?, ?, ?)`,
			animeName, episode, season, url, s.stamp()); err != nil {
			return 0, errors.Wrap(err, "history insert failed")
		}
		return Inserted, nil
	default:
		return 0, errors.Wrap(err, "history lookup failed")
	}
}

const selectColumns = `SELECT id, anime_name, episode, saison, url, timestamp FROM history`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (models.HistoryEntry, error) {
	var (
		e                           models.HistoryEntry
		name, episode, season, url sql.NullString
		ts                          sql.NullTime
	)
	if err := row.Scan(&e.ID, &name, &episode, &season, &url, &ts); err != nil {
		return e, err
	}
	e.AnimeName, e.Episode, e.Season, e.URL = name.String, episode.String, season.String, url.String
	if ts.Valid {
		e.Timestamp = ts.Time
	}
	return e, nil
}

// List returns every entry, most recently watched first
func (s *Store) List(ctx context.Context) ([]models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "history query failed")
	}
	defer func() { _ = rows.Close() }()

	list := make([]models.HistoryEntry, 0, avgEntries)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.Wrap(err, "history row scan failed")
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "history rows iteration failed")
	}
	return list, nil
}

// Get returns one entry by id, or ErrNotFound
func (s *Store) Get(ctx context.Context, id int64) (models.HistoryEntry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.HistoryEntry{}, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	if err != nil {
		return models.HistoryEntry{}, errors.Wrap(err, "history query failed")
	}
	return e, nil
}

// Delete removes an entry. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "history delete failed")
	}
	return nil
}

// Count returns the number of stored entries
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "history count failed")
	}
	return n, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
