package tracking

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// migration is one additive schema step. Steps never drop data.
type migration struct {
	version int
	name    string
	up      func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{1, "create history", func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			anime_name TEXT NOT NULL,
			episode    TEXT NOT NULL,
			saison     TEXT NOT NULL,
			url        TEXT,
			timestamp  DATETIME DEFAULT CURRENT_TIMESTAMP
		)`)
		return err
	}},
	{2, "add history.timestamp", func(ctx context.Context, tx *sql.Tx) error {
		ok, err := hasColumn(ctx, tx, "history", "timestamp")
		if err != nil || ok {
			return err
		}
		// ADD COLUMN rejects non-constant defaults, so existing rows are stamped afterwards
		if _, err := tx.ExecContext(ctx, `ALTER TABLE history ADD COLUMN timestamp DATETIME`); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE history SET timestamp = ? WHERE timestamp IS NULL`,
			time.Now().UTC().Format(timestampLayout))
		return err
	}},
	{3, "index history by anime and season", func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_history_anime_saison ON history(anime_name, saison)`)
		return err
	}},
}

// columnQuerier is satisfied by *sql.DB and *sql.Tx
type columnQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func hasColumn(ctx context.Context, q columnQuerier, table, column string) (bool, error) {
	rows, err := q.QueryContext(ctx, `PRAGMA table_info(`+table+`)`)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)`); err != nil {
		return errors.Wrap(err, "schema_migrations creation failed")
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return errors.Wrap(err, "migration begin failed")
		}
		if err := m.up(ctx, tx); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "migration %d (%s) failed", m.version, m.name)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)`,
			m.version, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "migration %d bookkeeping failed", m.version)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "migration %d commit failed", m.version)
		}
	}
	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, errors.Wrap(err, "schema_migrations query failed")
	}
	defer func() { _ = rows.Close() }()

	out := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out[v] = true
	}
	return out, rows.Err()
}
