package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"playlink/internal/core"
)

const trackCacheSchema = `
CREATE TABLE IF NOT EXISTS resolved_tracks (
	query       TEXT PRIMARY KEY,
	encoded     TEXT NOT NULL,
	info        TEXT NOT NULL,
	resolved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// TrackCache persists resolved tracks keyed by the search query that
// produced them, so repeated resolutions of the same query skip the
// search backend entirely.
type TrackCache struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTrackCache opens (and migrates) the cache database at path. Use
// ":memory:" for an ephemeral cache.
func NewTrackCache(path string, logger *zap.Logger) (*TrackCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open track cache: %w", err)
	}
	if _, err := db.Exec(trackCacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate track cache: %w", err)
	}

	return &TrackCache{db: db, logger: logger}, nil
}

// Get returns the cached raw track for a query, if any.
func (c *TrackCache) Get(ctx context.Context, query string) (*core.RawTrack, bool, error) {
	var encoded, infoJSON string
	err := c.db.QueryRowContext(ctx,
		`SELECT encoded, info FROM resolved_tracks WHERE query = ?`, query,
	).Scan(&encoded, &infoJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read track cache: %w", err)
	}

	var info core.RawTrackInfo
	if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
		// A corrupt row is treated as a miss; the next Put overwrites it.
		c.logger.Warn("dropping corrupt track cache row", zap.String("query", query), zap.Error(err))
		return nil, false, nil
	}

	return &core.RawTrack{Track: encoded, Info: info}, true, nil
}

// Put stores (or replaces) the raw track resolved for a query.
func (c *TrackCache) Put(ctx context.Context, query string, raw *core.RawTrack) error {
	if raw == nil {
		return fmt.Errorf("%w: raw track", core.ErrMissingArgument)
	}

	infoJSON, err := json.Marshal(raw.Info)
	if err != nil {
		return fmt.Errorf("failed to encode track info: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO resolved_tracks (query, encoded, info) VALUES (?, ?, ?)`,
		query, raw.Track, string(infoJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to write track cache: %w", err)
	}
	return nil
}

// Size returns the number of cached tracks.
func (c *TrackCache) Size(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resolved_tracks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count track cache: %w", err)
	}
	return n, nil
}

func (c *TrackCache) Close() error {
	return c.db.Close()
}
