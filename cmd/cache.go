package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/musicai/internal/shared"
	"github.com/desertthunder/musicai/internal/ui"
	"github.com/urfave/cli/v3"
)

// CacheStats reports how many query resolutions are cached.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: track cache not initialized, run 'musicai setup'", shared.ErrServiceUnavailable)
	}

	count, err := r.cache.Count()
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	r.writePlain("Cached resolutions: %d\n", count)
	return nil
}

// CacheClear removes all cached query resolutions.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: track cache not initialized, run 'musicai setup'", shared.ErrServiceUnavailable)
	}

	if err := r.cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("track cache cleared")
	r.writePlain("%s\n", ui.OK("Cache cleared"))
	return nil
}
