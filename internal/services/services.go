// package services implements HTTP clients for the external collaborators:
// the Spotify Web API and the OpenAI chat completion API.
package services

import (
	"context"

	"github.com/desertthunder/musicai/internal/models"
)

// Catalog defines the music catalog operations consumed by the orchestration
// layer. Implemented by [SpotifyService].
type Catalog interface {
	// SearchTracks resolves a free-text query against the catalog, returning
	// up to the top 20 server-ranked matches.
	SearchTracks(ctx context.Context, accessToken, query string) ([]models.Track, error)

	// CurrentUserID resolves the account id behind a user access token.
	CurrentUserID(ctx context.Context, accessToken string) (string, error)

	// CreatePlaylist creates a new non-public playlist under the given account.
	CreatePlaylist(ctx context.Context, accessToken, userID, name, description string) (string, error)

	// AddTracks appends track URIs to a playlist. Callers must keep batches
	// within the API's 50 entry limit.
	AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error

	// UserPlaylists lists the playlists owned by or followed from the account
	// behind the access token.
	UserPlaylists(ctx context.Context, accessToken string) ([]models.Playlist, error)
}

// Generator turns a free-text mood or genre description into an ordered list
// of "track - artist" query strings. Implemented by [OpenAIService].
type Generator interface {
	GenerateTrackList(ctx context.Context, message string, count int) ([]string, error)
}
