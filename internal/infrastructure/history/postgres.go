// ABOUTME: Postgres-backed play history repository
// ABOUTME: Same contract as the sqlite backend, for shared deployments
package history

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/SteKarstens/stuvion-radio-player/internal/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS song_history (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	artist     TEXT NOT NULL,
	cover_url  TEXT NOT NULL DEFAULT '',
	listeners  INTEGER NOT NULL DEFAULT 0,
	played_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_song_history_played_at ON song_history (played_at DESC);
`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgres(dsn string) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres database")
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create history schema")
	}

	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Latest(ctx context.Context) (*domain.HistoryEntry, error) {
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

func (r *PostgresRepository) Insert(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO song_history (id, title, artist, cover_url, listeners, played_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.Title, entry.Artist, entry.CoverURL, entry.Listeners, entry.PlayedAt)
	return errors.Wrap(err, "insert history entry")
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	entries := make([]domain.HistoryEntry, 0, limit)
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, title, artist, cover_url, listeners, played_at
		FROM song_history
		ORDER BY played_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query recent history")
	}
	return entries, nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
