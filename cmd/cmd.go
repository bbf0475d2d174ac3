// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// generateCommand handles playlist generation from a free-text prompt
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a track list from a free-text prompt",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "message",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of tracks to request",
				Value: 20,
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Playlist name to stamp on resolved tracks",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "Playlist description (used with --save)",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Create the playlist on Spotify (requires --token and --name)",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "Spotify user access token (from 'musicai auth login')",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export track list to a file (.csv, .md, .json, .txt)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Generate,
	}
}

// authCommand handles the OAuth2 authorization flows
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authorization",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize with Spotify using OAuth2 and print the user credential",
				Action: r.AuthLogin,
			},
			{
				Name:   "url",
				Usage:  "Print the authorization URL without starting a local server",
				Action: r.AuthURL,
			},
			{
				Name:  "refresh",
				Usage: "Exchange a refresh token for a fresh user credential",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "token",
						Usage:    "Refresh token from a previous authorization",
						Required: true,
					},
				},
				Action: r.AuthRefresh,
			},
			{
				Name:   "status",
				Usage:  "Check service credential state",
				Action: r.AuthStatus,
			},
		},
	}
}

// playlistsCommand handles playlist listing operations
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "List the authorized user's playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "token",
				Usage:    "Spotify user access token",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Playlists,
	}
}

// cacheCommand handles the resolved-track cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the resolved-track cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache entry count",
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached resolutions",
				Action: r.CacheClear,
			},
		},
	}
}

// setupCommand handles config and database initialization
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// serveCommand starts the JSON API server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the playlist generation HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to bind (overrides config)",
			},
		},
		Action: r.Serve,
	}
}
