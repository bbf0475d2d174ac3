package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicai/internal/models"
	"github.com/desertthunder/musicai/internal/shared"
	"github.com/desertthunder/musicai/internal/tasks"
)

// Engine is the slice of [tasks.PlaylistEngine] the API layer depends on.
type Engine interface {
	GeneratePlaylist(ctx context.Context, message string, count int, label string) ([]models.Track, error)
	GenerateAndSave(ctx context.Context, userToken, message string, count int, req models.PlaylistRequest) (string, []models.Track, error)
}

// Authorizer issues authorization URLs and refreshes user credentials.
// Implemented by [auth.Acquirer].
type Authorizer interface {
	AuthorizationURL(state string) string
	Refresh(ctx context.Context, refreshToken string) (models.UserCredential, error)
}

// PlaylistLister fetches the playlists owned by or followed by a user.
type PlaylistLister interface {
	UserPlaylists(ctx context.Context, accessToken string) ([]models.Playlist, error)
}

// PlaylistHandler serves the playlist generation JSON API.
// Implements the Handler interface for registration with a Router.
type PlaylistHandler struct {
	engine     Engine
	authorizer Authorizer
	lister     PlaylistLister
	logger     *log.Logger
}

// NewPlaylistHandler creates a PlaylistHandler with the given dependencies.
func NewPlaylistHandler(engine Engine, authorizer Authorizer, lister PlaylistLister, logger *log.Logger) *PlaylistHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &PlaylistHandler{
		engine:     engine,
		authorizer: authorizer,
		lister:     lister,
		logger:     logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaylistHandler) Routes() []string {
	return []string{
		"/api/playlists/generate",
		"/api/playlists",
		"/api/me/playlists",
		"/api/auth/url",
		"/api/auth/refresh",
	}
}

// ServeHTTP dispatches to the endpoint implementations by path and method.
func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/playlists/generate" && r.Method == http.MethodPost:
		h.generate(w, r)
	case r.URL.Path == "/api/playlists" && r.Method == http.MethodPost:
		h.generateAndSave(w, r)
	case r.URL.Path == "/api/me/playlists" && r.Method == http.MethodGet:
		h.listPlaylists(w, r)
	case r.URL.Path == "/api/auth/url" && r.Method == http.MethodGet:
		h.authorizationURL(w, r)
	case r.URL.Path == "/api/auth/refresh" && r.Method == http.MethodPost:
		h.refresh(w, r)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type generateRequest struct {
	Message     string `json:"message"`
	Count       int    `json:"count"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type generateResponse struct {
	Tracks []models.Track `json:"tracks"`
}

type savedPlaylistResponse struct {
	PlaylistID string         `json:"playlist_id"`
	Tracks     []models.Track `json:"tracks"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type errorResponse struct {
	Error      string `json:"error"`
	PlaylistID string `json:"playlist_id,omitempty"`
}

// generate resolves a free-text message into a track list without persisting
// a playlist.
func (h *PlaylistHandler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	tracks, err := h.engine.GeneratePlaylist(r.Context(), req.Message, req.Count, req.Name)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, generateResponse{Tracks: tracks})
}

// generateAndSave resolves a message into tracks and writes them to a new
// playlist under the caller's account. Requires a user Bearer token.
func (h *PlaylistHandler) generateAndSave(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		h.writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	playlistReq := models.PlaylistRequest{Name: req.Name, Description: req.Description}
	playlistID, tracks, err := h.engine.GenerateAndSave(r.Context(), token, req.Message, req.Count, playlistReq)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, savedPlaylistResponse{PlaylistID: playlistID, Tracks: tracks})
}

// listPlaylists returns the caller's playlists. Requires a user Bearer token.
func (h *PlaylistHandler) listPlaylists(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		h.writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	playlists, err := h.lister.UserPlaylists(r.Context(), token)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string][]models.Playlist{"playlists": playlists})
}

// authorizationURL returns the URL a user should visit to grant access.
// A fresh state parameter is generated per request and echoed back so the
// caller can verify the eventual callback.
func (h *PlaylistHandler) authorizationURL(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()
	h.writeJSON(w, http.StatusOK, map[string]string{
		"url":   h.authorizer.AuthorizationURL(state),
		"state": state,
	})
}

// refresh exchanges a refresh token for a fresh user credential.
func (h *PlaylistHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	credential, err := h.authorizer.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, credential)
}

// writeFailure maps domain errors onto HTTP status codes.
//
// A partial playlist write keeps its playlist id in the response body so the
// caller can inspect or clean up the partially filled playlist.
func (h *PlaylistHandler) writeFailure(w http.ResponseWriter, err error) {
	var writeErr *tasks.PlaylistWriteError
	if errors.As(err, &writeErr) {
		h.logger.Error("playlist partially written", "playlist_id", writeErr.PlaylistID, "err", err)
		h.writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), PlaylistID: writeErr.PlaylistID})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrInvalidRefreshToken):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrCredentialUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, shared.ErrAuthExchange):
		status = http.StatusUnauthorized
	case errors.Is(err, shared.ErrNoTracksGenerated):
		status = http.StatusUnprocessableEntity
	}

	h.logger.Error("request failed", "status", status, "err", err)
	h.writeError(w, status, err.Error())
}

func (h *PlaylistHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}

func (h *PlaylistHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "err", err)
	}
}

// bearerToken extracts the token from an Authorization: Bearer header.
// Returns the empty string when the header is absent or malformed.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
