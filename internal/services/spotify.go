// Spotify Web API client
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/musicai/internal/models"
	"github.com/desertthunder/musicai/internal/shared"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	// searchLimit caps search responses at the top server-ranked matches.
	searchLimit = 20
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Artists      []SpotifyArtist   `json:"artists"`
	Album        SpotifyAlbum      `json:"album"`
	ExternalURLs map[string]string `json:"external_urls"`
	URI          string            `json:"uri"`
}

type trackPage struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
}

// searchResponse is the wire shape of GET /search responses.
type searchResponse struct {
	Tracks trackPage `json:"tracks"`
}

// spotifyUser is the wire shape of GET /me responses.
type spotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

type simplePlaylistTracks struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Public        bool                 `json:"public"`
	Collaborative bool                 `json:"collaborative"`
	Images        []SpotifyImage       `json:"images"`
	Tracks        simplePlaylistTracks `json:"tracks"`
	ExternalURLs  map[string]string    `json:"external_urls"`
}

// spotifyPaginatedPlaylists represents a paginated response of playlists.
type spotifyPaginatedPlaylists struct {
	Items []SpotifySimplePlaylist `json:"items"`
	Total int                     `json:"total"`
	Next  *string                 `json:"next"`
}

// SpotifyService implements [Catalog] against the Spotify Web API.
//
// Every call is authenticated with a caller-supplied bearer token: the shared
// service credential for search, a user-delegated token for playlist mutation.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyService creates a new Spotify Web API client.
func NewSpotifyService(client *http.Client) *SpotifyService {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &SpotifyService{
		baseURL:    spotifyBaseURL,
		httpClient: client,
	}
}

// doRequest performs an authenticated HTTP request against the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint, accessToken string, body, result any) error {
	apiURL := s.baseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchTracks resolves a free-text query to the top server-ranked track
// matches, capped at 20.
func (s *SpotifyService) SearchTracks(ctx context.Context, accessToken, query string) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), searchLimit)

	var response searchResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, accessToken, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		tracks = append(tracks, toTrack(item))
	}

	return tracks, nil
}

// toTrack converts a wire track into the domain model.
func toTrack(st SpotifyTrack) models.Track {
	track := models.Track{
		ID:    st.ID,
		Title: st.Name,
	}

	if len(st.Artists) > 0 {
		track.Artist = st.Artists[0].Name
	}
	if len(st.Album.Images) > 0 {
		track.ArtworkURL = st.Album.Images[0].URL
	}
	if link, ok := st.ExternalURLs["spotify"]; ok {
		track.ExternalURL = link
	}

	return track
}

// CurrentUserID resolves the account id behind a user access token.
func (s *SpotifyService) CurrentUserID(ctx context.Context, accessToken string) (string, error) {
	var user spotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", accessToken, nil, &user); err != nil {
		return "", err
	}

	if user.ID == "" {
		return "", fmt.Errorf("%w: empty user id in profile response", shared.ErrAPIRequest)
	}

	return user.ID, nil
}

// CreatePlaylist creates a new non-public playlist under the given account and
// returns its id.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, accessToken, userID, name, description string) (string, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))

	payload := createPlaylistRequest{
		Name:        name,
		Description: description,
		Public:      false,
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := s.doRequest(ctx, http.MethodPost, endpoint, accessToken, payload, &created); err != nil {
		return "", err
	}

	if created.ID == "" {
		return "", fmt.Errorf("%w: empty playlist id in create response", shared.ErrAPIRequest)
	}

	return created.ID, nil
}

// AddTracks appends track URIs to a playlist in a single call.
func (s *SpotifyService) AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return s.doRequest(ctx, http.MethodPost, endpoint, accessToken, addTracksRequest{URIs: uris}, nil)
}

// UserPlaylists retrieves all of the current user's playlists, following
// pagination.
func (s *SpotifyService) UserPlaylists(ctx context.Context, accessToken string) ([]models.Playlist, error) {
	var all []models.Playlist
	limit := 50
	offset := 0

	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

		var response spotifyPaginatedPlaylists
		if err := s.doRequest(ctx, http.MethodGet, endpoint, accessToken, nil, &response); err != nil {
			return nil, err
		}

		for _, sp := range response.Items {
			playlist := models.Playlist{
				ID:            sp.ID,
				Name:          sp.Name,
				Description:   sp.Description,
				TrackCount:    sp.Tracks.Total,
				Public:        sp.Public,
				Collaborative: sp.Collaborative,
			}
			if len(sp.Images) > 0 {
				playlist.ArtworkURL = sp.Images[0].URL
			}
			if link, ok := sp.ExternalURLs["spotify"]; ok {
				playlist.ExternalURL = link
			}
			all = append(all, playlist)
		}

		if response.Next == nil {
			break
		}
		offset += limit
	}

	return all, nil
}
