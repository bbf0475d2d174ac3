package main

import (
	"context"
	"net/http"
	"os"

	"github.com/desertthunder/musicai/internal/auth"
	"github.com/desertthunder/musicai/internal/repositories"
	"github.com/desertthunder/musicai/internal/services"
	"github.com/desertthunder/musicai/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("failed to load config, using defaults %v", err)
		}
	}

	opts := RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	}

	spotify := config.Credentials.Spotify
	if spotify.ClientID != "" && spotify.ClientSecret != "" {
		if acquirer, err := auth.NewAcquirer(spotify.ClientID, spotify.ClientSecret, spotify.RedirectURI); err == nil {
			opts.Acquirer = acquirer
			opts.Guard = auth.NewGuard(acquirer)
		} else {
			logger.Warnf("failed to create token acquirer %v", err)
		}
	}

	opts.Catalog = services.NewSpotifyService(http.DefaultClient)

	openai := config.Credentials.OpenAI
	if openai.APIKey != "" {
		if generator, err := services.NewOpenAIService(openai.APIKey, openai.Model, openai.BaseURL); err == nil {
			opts.Generator = generator
		} else {
			logger.Warnf("failed to create chat completion service %v", err)
		}
	}

	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		opts.DB = db
		opts.Cache = repositories.NewTrackCache(db)
		defer db.Close()
	} else {
		logger.Debug("track cache unavailable", "err", err)
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "musicai",
		Usage:    "Generate Spotify playlists from natural language prompts",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
