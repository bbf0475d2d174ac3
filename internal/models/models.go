// package models defines the data model for the musicai playlist generation service
package models

import "time"

// Track represents a resolved catalog item from a Spotify search.
// Instances are read-only after construction.
type Track struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	ArtworkURL   string `json:"artwork_url"`
	ExternalURL  string `json:"external_url"`
	PlaylistName string `json:"playlist_name,omitempty"`
}

// WithPlaylistName returns a copy of the track stamped with the given playlist label.
func (t Track) WithPlaylistName(name string) Track {
	t.PlaylistName = name
	return t
}

// Playlist represents playlist metadata from the Spotify API.
type Playlist struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ArtworkURL    string `json:"artwork_url"`
	TrackCount    int    `json:"track_count"`
	Public        bool   `json:"public"`
	Collaborative bool   `json:"collaborative"`
	ExternalURL   string `json:"external_url"`
}

// UserCredential holds the result of a user-delegated OAuth exchange.
//
// The service never stores these; callers persist them and resubmit the
// refresh token when the access token expires.
type UserCredential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
	Scope        string    `json:"scope"`
}

// PlaylistRequest describes a playlist to be created under a user's account.
type PlaylistRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TrackIDs    []string `json:"track_ids"`
}
