package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicai/internal/auth"
	"github.com/desertthunder/musicai/internal/repositories"
	"github.com/desertthunder/musicai/internal/services"
	"github.com/desertthunder/musicai/internal/shared"
	"github.com/desertthunder/musicai/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	acquirer   *auth.Acquirer
	guard      *auth.Guard
	catalog    services.Catalog
	generator  services.Generator
	cache      *repositories.TrackCache
	db         *sql.DB
	engine     *tasks.PlaylistEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Acquirer   *auth.Acquirer
	Guard      *auth.Guard
	Catalog    services.Catalog
	Generator  services.Generator
	Cache      *repositories.TrackCache
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	var engine *tasks.PlaylistEngine
	if opts.Guard != nil && opts.Catalog != nil {
		var cache tasks.TrackCacher
		if opts.Cache != nil {
			cache = opts.Cache
		}
		engine = tasks.NewPlaylistEngine(tasks.EngineOpts{
			Guard:     opts.Guard,
			Catalog:   opts.Catalog,
			Generator: opts.Generator,
			Cache:     cache,
			Logger:    opts.Logger,
		})
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		acquirer:   opts.Acquirer,
		guard:      opts.Guard,
		catalog:    opts.Catalog,
		generator:  opts.Generator,
		cache:      opts.Cache,
		db:         opts.DB,
		engine:     engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, generateCommand, playlistsCommand, cacheCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
