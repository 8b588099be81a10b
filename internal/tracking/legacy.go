package tracking

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ImportLegacy copies the rows of an older history database into the store.
// Nothing happens when the store already has entries or oldPath does not exist.
// It returns the number of imported rows.
func (s *Store) ImportLegacy(ctx context.Context, oldPath string) (int, error) {
	if oldPath == "" {
		return 0, nil
	}
	if _, err := os.Stat(oldPath); err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "failed to stat legacy history")
	}

	n, err := s.Count(ctx)
	if err != nil || n > 0 {
		return 0, err
	}

	abs, err := filepath.Abs(oldPath)
	if err != nil {
		return 0, errors.Wrap(err, "failed to resolve legacy history path")
	}
	old, err := sql.Open("sqlite3", "file:"+abs+"?mode=ro")
	if err != nil {
		return 0, errors.Wrap(err, "failed to open legacy history")
	}
	defer func() { _ = old.Close() }()

	hasTable, err := legacyHasHistory(ctx, old)
	if err != nil || !hasTable {
		return 0, err
	}
	withTimestamp, err := hasColumn(ctx, old, "history", "timestamp")
	if err != nil {
		return 0, errors.Wrap(err, "failed to inspect legacy history")
	}

	query := `SELECT anime_name, episode, saison, url, NULL FROM history ORDER BY id`
	if withTimestamp {
		query = `SELECT anime_name, episode, saison, url, timestamp FROM history ORDER BY id`
	}
	rows, err := old.QueryContext(ctx, query)
	if err != nil {
		return 0, errors.Wrap(err, "legacy history query failed")
	}
	defer func() { _ = rows.Close() }()

	type legacyRow struct {
		name, episode, season, url sql.NullString
		ts                         sql.NullTime
	}
	var pending []legacyRow
	for rows.Next() {
		var r legacyRow
		if err := rows.Scan(&r.name, &r.episode, &r.season, &r.url, &r.ts); err != nil {
			return 0, errors.Wrap(err, "legacy history row scan failed")
		}
		pending = append(pending, r)
	}
	if err := rows.Err(); err != nil {
		return 0, errors.Wrap(err, "legacy history iteration failed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "legacy import begin failed")
	}
	for _, r := range pending {
		stamp := s.stamp()
		if r.ts.Valid && !r.ts.Time.IsZero() {
			stamp = r.ts.Time.UTC().Format(timestampLayout)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO history (anime_name, episode, saison, url, timestamp) VALUES (?, ?, ?, ?, ?)`,
			r.name.String, r.episode.String, r.season.String, r.url.String, stamp); err != nil {
			_ = tx.Rollback()
			return 0, errors.Wrap(err, "legacy history insert failed")
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "legacy import commit failed")
	}
	return len(pending), nil
}

func legacyHasHistory(ctx context.Context, db *sql.DB) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'history'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to inspect legacy history")
	}
	return true, nil
}
