package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/musicai/internal/shared"
	"github.com/urfave/cli/v3"
)

// Playlists lists the authorized user's Spotify playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	token := cmd.String("token")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.catalog == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("listing user playlists")

	playlists, err := r.catalog.UserPlaylists(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}

	return nil
}
