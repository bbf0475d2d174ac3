// package repositories provides the persistence layer for resolved catalog lookups.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/musicai/internal/models"
)

const trackCacheSchema = `
CREATE TABLE IF NOT EXISTS resolved_tracks (
	query_key    TEXT PRIMARY KEY,
	track_id     TEXT NOT NULL,
	title        TEXT NOT NULL,
	artist       TEXT NOT NULL,
	artwork_url  TEXT NOT NULL DEFAULT '',
	external_url TEXT NOT NULL DEFAULT '',
	resolved_at  TIMESTAMP NOT NULL
);
`

// TrackCache stores query → resolved track mappings in SQLite so repeated
// free-text queries skip the catalog search round-trip.
//
// Credentials are never written here; only resolved catalog items.
type TrackCache struct {
	db *sql.DB
}

// NewTrackCache creates a TrackCache backed by the given database connection.
func NewTrackCache(db *sql.DB) *TrackCache {
	return &TrackCache{db: db}
}

// Migrate creates the cache table if it does not exist.
func (c *TrackCache) Migrate() error {
	if _, err := c.db.Exec(trackCacheSchema); err != nil {
		return fmt.Errorf("failed to migrate track cache: %w", err)
	}
	return nil
}

// Get looks up a previously resolved track by its normalized query key.
// A cache miss returns (nil, nil).
func (c *TrackCache) Get(queryKey string) (*models.Track, error) {
	row := c.db.QueryRow(
		`SELECT track_id, title, artist, artwork_url, external_url FROM resolved_tracks WHERE query_key = ?`,
		queryKey,
	)

	var track models.Track
	err := row.Scan(&track.ID, &track.Title, &track.Artist, &track.ArtworkURL, &track.ExternalURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read track cache: %w", err)
	}

	return &track, nil
}

// Put stores a resolved track under its query key.
// Duplicate keys are silently replaced (last resolution wins).
func (c *TrackCache) Put(queryKey string, track models.Track) error {
	if strings.TrimSpace(queryKey) == "" {
		return fmt.Errorf("query key is empty")
	}

	_, err := c.db.Exec(
		`INSERT INTO resolved_tracks (query_key, track_id, title, artist, artwork_url, external_url, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(query_key) DO UPDATE SET
			track_id = excluded.track_id,
			title = excluded.title,
			artist = excluded.artist,
			artwork_url = excluded.artwork_url,
			external_url = excluded.external_url,
			resolved_at = excluded.resolved_at`,
		queryKey, track.ID, track.Title, track.Artist, track.ArtworkURL, track.ExternalURL, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// Count returns the number of cached resolutions.
func (c *TrackCache) Count() (int, error) {
	var count int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM resolved_tracks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count track cache: %w", err)
	}
	return count, nil
}

// Clear removes all cached resolutions.
func (c *TrackCache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM resolved_tracks`); err != nil {
		return fmt.Errorf("failed to clear track cache: %w", err)
	}
	return nil
}
