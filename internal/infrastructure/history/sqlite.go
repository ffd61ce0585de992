// ABOUTME: SQLite-backed play history repository
// ABOUTME: Bootstraps its schema on open; the default single-node backend
package history

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/SteKarstens/stuvion-radio-player/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS song_history (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	artist     TEXT NOT NULL,
	cover_url  TEXT NOT NULL DEFAULT '',
	listeners  INTEGER NOT NULL DEFAULT 0,
	played_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_song_history_played_at ON song_history (played_at DESC);
`

type SQLiteRepository struct {
	db *sqlx.DB
}

func NewSQLite(path string) (*SQLiteRepository, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create history schema")
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Latest(ctx context.Context) (*domain.HistoryEntry, error) {
	var entry domain.HistoryEntry
	err := r.db.GetContext(ctx, &entry, `
		SELECT id, title, artist, cover_url, listeners, played_at
		FROM song_history
		ORDER BY played_at DESC
		LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "query latest history entry")
	}
	return &entry, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO song_history (id, title, artist, cover_url, listeners, played_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Title, entry.Artist, entry.CoverURL, entry.Listeners, entry.PlayedAt)
	return errors.Wrap(err, "insert history entry")
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	entries := make([]domain.HistoryEntry, 0, limit)
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, title, artist, cover_url, listeners, played_at
		FROM song_history
		ORDER BY played_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query recent history")
	}
	return entries, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
