// package tasks orchestrates playlist generation against the catalog and
// chat completion services.
//
// The core abstraction is PlaylistEngine, which resolves free-text track
// queries, writes playlists in bounded batches, and composes the two into the
// generation facade used by the CLI and HTTP layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicai/internal/auth"
	"github.com/desertthunder/musicai/internal/models"
	"github.com/desertthunder/musicai/internal/services"
	"github.com/desertthunder/musicai/internal/shared"
	"golang.org/x/time/rate"
)

// searchPace spaces consecutive catalog searches to stay under the API's
// implicit rate limit. Total resolution latency grows linearly with the
// query count; callers must budget for it.
const searchPace = 100 * time.Millisecond

// CredentialProvider supplies a currently valid service credential.
// Implemented by [auth.Guard].
type CredentialProvider interface {
	Credential(ctx context.Context) (auth.ServiceCredential, error)
	Valid() bool
}

// TrackCacher persists resolved queries. Optional; implemented by
// repositories.TrackCache.
type TrackCacher interface {
	Get(queryKey string) (*models.Track, error)
	Put(queryKey string, track models.Track) error
}

// PlaylistEngine implements query resolution, playlist writing, and the
// generation facade.
type PlaylistEngine struct {
	guard     CredentialProvider
	catalog   services.Catalog
	generator services.Generator
	cache     TrackCacher
	limiter   *rate.Limiter
	logger    *log.Logger
}

// EngineOpts contains dependencies for creating a PlaylistEngine.
type EngineOpts struct {
	Guard     CredentialProvider
	Catalog   services.Catalog
	Generator services.Generator
	Cache     TrackCacher   // optional resolved-track cache
	Limiter   *rate.Limiter // defaults to one search per 100ms
	Logger    *log.Logger
}

// NewPlaylistEngine creates a PlaylistEngine with the provided dependencies.
func NewPlaylistEngine(opts EngineOpts) *PlaylistEngine {
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Every(searchPace), 1)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &PlaylistEngine{
		guard:     opts.Guard,
		catalog:   opts.Catalog,
		generator: opts.Generator,
		cache:     opts.Cache,
		limiter:   opts.Limiter,
		logger:    opts.Logger,
	}
}

// ResolveQueries resolves each free-text query to its best catalog match,
// sequentially and in input order.
//
// A query that yields no result, or whose search fails, contributes nothing
// to the output; the failure is logged and never propagated. Empty input
// yields empty output with no network activity.
func (e *PlaylistEngine) ResolveQueries(ctx context.Context, queries []string) ([]models.Track, error) {
	if len(queries) == 0 {
		return []models.Track{}, nil
	}
	if e.catalog == nil || e.guard == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	resolved := make([]models.Track, 0, len(queries))

	for _, query := range queries {
		if track := e.cachedTrack(query); track != nil {
			resolved = append(resolved, *track)
			continue
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return resolved, fmt.Errorf("resolution cancelled: %w", err)
		}

		track, ok := e.resolveQuery(ctx, query)
		if !ok {
			continue
		}

		resolved = append(resolved, track)
		e.cacheTrack(query, track)
	}

	return resolved, nil
}

// resolveQuery resolves a single query to its first server-ranked match.
// The bool result makes the isolated-failure contract explicit: false means
// the query contributes nothing and the loop continues.
func (e *PlaylistEngine) resolveQuery(ctx context.Context, query string) (models.Track, bool) {
	cred, err := e.guard.Credential(ctx)
	if err != nil {
		e.logger.Warn("skipping query: no service credential", "query", query, "err", err)
		return models.Track{}, false
	}

	matches, err := e.catalog.SearchTracks(ctx, cred.AccessToken, query)
	if err != nil {
		e.logger.Warn("skipping query: search failed", "query", query, "err", err)
		return models.Track{}, false
	}
	if len(matches) == 0 {
		e.logger.Warn("skipping query: no matches", "query", query)
		return models.Track{}, false
	}

	return matches[0], true
}

// cachedTrack consults the optional cache; errors are treated as misses.
func (e *PlaylistEngine) cachedTrack(query string) *models.Track {
	if e.cache == nil {
		return nil
	}

	track, err := e.cache.Get(shared.NormalizeQueryKey(query))
	if err != nil {
		e.logger.Debug("track cache read failed", "query", query, "err", err)
		return nil
	}
	return track
}

// cacheTrack stores a resolution in the optional cache; failures are logged
// and never disrupt resolution.
func (e *PlaylistEngine) cacheTrack(query string, track models.Track) {
	if e.cache == nil {
		return
	}

	if err := e.cache.Put(shared.NormalizeQueryKey(query), track); err != nil {
		e.logger.Debug("track cache write failed", "query", query, "err", err)
	}
}

// PlaylistGenerationError wraps any upstream failure during playlist
// generation, preserving the original cause for diagnostics.
type PlaylistGenerationError struct {
	Err error
}

func (e *PlaylistGenerationError) Error() string {
	return fmt.Sprintf("playlist generation failed: %v", e.Err)
}

func (e *PlaylistGenerationError) Unwrap() error {
	return e.Err
}

// GeneratePlaylist produces a resolved track list for a free-text message.
//
// Fails fast when the service credential is invalid, before any chat or
// catalog work. When label is non-empty every resulting track is stamped with
// it via a pure copy transform.
func (e *PlaylistEngine) GeneratePlaylist(ctx context.Context, message string, count int, label string) ([]models.Track, error) {
	if message == "" {
		return []models.Track{}, nil
	}
	if e.generator == nil {
		return nil, fmt.Errorf("%w: generator not initialized", shared.ErrServiceUnavailable)
	}
	if count <= 0 {
		count = 20
	}

	if !e.guard.Valid() {
		return nil, fmt.Errorf("%w: service credential invalid or expired", shared.ErrCredentialUnavailable)
	}

	queries, err := e.generator.GenerateTrackList(ctx, message, count)
	if err != nil {
		return nil, &PlaylistGenerationError{Err: err}
	}

	tracks, err := e.ResolveQueries(ctx, queries)
	if err != nil {
		return nil, &PlaylistGenerationError{Err: err}
	}

	if label == "" {
		return tracks, nil
	}

	labeled := make([]models.Track, 0, len(tracks))
	for _, track := range tracks {
		labeled = append(labeled, track.WithPlaylistName(label))
	}

	return labeled, nil
}

// GenerateAndSave generates a track list for the message and persists it as a
// playlist under the caller's account.
//
// Returns the created playlist id alongside the resolved tracks. Generation
// failures surface before any playlist is created; write failures carry the
// partial playlist id via [*PlaylistWriteError].
func (e *PlaylistEngine) GenerateAndSave(ctx context.Context, userToken, message string, count int, req models.PlaylistRequest) (string, []models.Track, error) {
	tracks, err := e.GeneratePlaylist(ctx, message, count, req.Name)
	if err != nil {
		return "", nil, err
	}
	if len(tracks) == 0 {
		return "", nil, fmt.Errorf("%w: no suitable tracks for message", shared.ErrNoTracksGenerated)
	}

	ids := make([]string, 0, len(tracks))
	for _, track := range tracks {
		ids = append(ids, track.ID)
	}
	req.TrackIDs = ids

	playlistID, err := e.CreateAndPopulate(ctx, userToken, req)
	if err != nil {
		return "", tracks, err
	}

	return playlistID, tracks, nil
}
