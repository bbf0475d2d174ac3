package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/musicai/internal/repositories"
	"github.com/desertthunder/musicai/internal/shared"
	"github.com/desertthunder/musicai/internal/ui"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file if missing and initializes the database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.writePlain("%s\n", ui.OK("Config file created at %s", configPath))
			r.writePlain("%s\n", ui.Help("Fill in your Spotify and OpenAI credentials before generating."))
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := repositories.NewTrackCache(db).Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("%s\n", ui.OK("Setup complete"))
	return nil
}
