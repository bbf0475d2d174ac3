package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/musicai/internal/models"
	"github.com/desertthunder/musicai/internal/shared"
)

// maxBatchSize is the largest number of track URIs the playlist endpoint
// accepts per call. Chunking is mandatory, not an optimization.
const maxBatchSize = 50

// trackURIPrefix converts catalog track ids into the URI scheme the playlist
// endpoint expects.
const trackURIPrefix = "spotify:track:"

// PlaylistWriteError reports a failed batch submission after the playlist was
// already created. The playlist is not rolled back; PlaylistID identifies the
// partial playlist.
type PlaylistWriteError struct {
	PlaylistID string
	Err        error
}

func (e *PlaylistWriteError) Error() string {
	return fmt.Sprintf("playlist write failed for %s: %v", e.PlaylistID, e.Err)
}

func (e *PlaylistWriteError) Unwrap() error {
	return e.Err
}

// CreateAndPopulate creates a non-public playlist under the authenticated
// user's account and fills it with the given tracks in ordered batches.
//
// Preconditions are checked before any network call. Batches are submitted
// sequentially; on batch failure the operation aborts and the returned
// [*PlaylistWriteError] carries the already-created playlist id.
func (e *PlaylistEngine) CreateAndPopulate(ctx context.Context, userToken string, req models.PlaylistRequest) (string, error) {
	if e.catalog == nil {
		return "", fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	if userToken == "" {
		return "", fmt.Errorf("%w: user access token is empty", shared.ErrInvalidArgument)
	}
	if strings.TrimSpace(req.Name) == "" {
		return "", fmt.Errorf("%w: playlist name is empty", shared.ErrInvalidArgument)
	}

	ids := filterTrackIDs(req.TrackIDs)
	if len(ids) == 0 {
		return "", fmt.Errorf("%w: no usable track ids", shared.ErrInvalidArgument)
	}

	description := req.Description
	if description == "" {
		description = "Generated by musicai"
	}

	userID, err := e.catalog.CurrentUserID(ctx, userToken)
	if err != nil {
		return "", fmt.Errorf("failed to resolve user account: %w", err)
	}

	playlistID, err := e.catalog.CreatePlaylist(ctx, userToken, userID, req.Name, description)
	if err != nil {
		return "", fmt.Errorf("failed to create playlist: %w", err)
	}

	uris := make([]string, 0, len(ids))
	for _, id := range ids {
		uris = append(uris, trackURIPrefix+id)
	}

	for start := 0; start < len(uris); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(uris) {
			end = len(uris)
		}

		if err := e.catalog.AddTracks(ctx, userToken, playlistID, uris[start:end]); err != nil {
			return playlistID, &PlaylistWriteError{PlaylistID: playlistID, Err: err}
		}
	}

	return playlistID, nil
}

// filterTrackIDs removes blank and duplicate ids, preserving the order of the
// surviving entries.
func filterTrackIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	filtered := make([]string, 0, len(ids))

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		filtered = append(filtered, id)
	}

	return filtered
}
