package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/musicai/internal/formatter"
	"github.com/desertthunder/musicai/internal/models"
	"github.com/desertthunder/musicai/internal/shared"
	"github.com/desertthunder/musicai/internal/ui"
	"github.com/urfave/cli/v3"
)

// Generate resolves a free-text prompt into a track list, optionally saving
// it as a Spotify playlist or exporting it to a file.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	message := cmd.StringArg("message")
	count := cmd.Int("count")
	name := cmd.String("name")
	description := cmd.String("description")
	save := cmd.Bool("save")
	token := cmd.String("token")
	outputFile := cmd.String("output")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("%w: a prompt message is required", shared.ErrMissingArgument)
	}
	if r.engine == nil {
		return fmt.Errorf("%w: Spotify credentials not configured, run 'musicai setup'", shared.ErrServiceUnavailable)
	}
	if save {
		if token == "" {
			return fmt.Errorf("%w: --token is required with --save", shared.ErrMissingArgument)
		}
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: --name is required with --save", shared.ErrMissingArgument)
		}
	}

	if err := r.guard.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to acquire service credential: %w", err)
	}

	r.logger.Info("generating track list", "count", count)

	var playlistID string
	var tracks []models.Track
	var err error

	if save {
		req := models.PlaylistRequest{Name: name, Description: description}
		playlistID, tracks, err = r.engine.GenerateAndSave(ctx, token, message, count, req)
	} else {
		tracks, err = r.engine.GeneratePlaylist(ctx, message, count, name)
	}
	if err != nil {
		return err
	}

	if len(tracks) == 0 {
		r.writePlain("%s\n", ui.Warn("No tracks matched the prompt."))
		return nil
	}

	if outputFile != "" {
		export := &formatter.GenerationExport{
			Name:        name,
			Description: description,
			Message:     message,
			PlaylistID:  playlistID,
			Tracks:      tracks,
		}
		if err := formatter.WriteExport(export, outputFile); err != nil {
			return err
		}
		r.writePlain("%s\n", ui.OK("Track list exported to %s", outputFile))
	}

	if useJSON {
		if save {
			return r.writeJSON(map[string]any{"playlist_id": playlistID, "tracks": tracks}, pretty)
		}
		return r.writeJSON(tracks, pretty)
	}

	title := name
	if title == "" {
		title = message
	}
	r.writePlain("%s\n", ui.Title(title))
	r.writePlain("%s", ui.TrackList(tracks))

	if save {
		r.writePlainln("%s", ui.OK("Playlist created: %s (%d tracks)", playlistID, len(tracks)))
	}

	return nil
}
