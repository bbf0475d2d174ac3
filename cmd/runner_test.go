package main

import (
	"bytes"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/musicai/internal/auth"
	"github.com/desertthunder/musicai/internal/services"
	"github.com/desertthunder/musicai/internal/shared"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := services.NewSpotifyService(httpClient)

			acquirer, err := auth.NewAcquirer("id", "secret", "")
			if err != nil {
				t.Fatalf("failed to create acquirer: %v", err)
			}
			guard := auth.NewGuard(acquirer)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Acquirer:   acquirer,
				Guard:      guard,
				Catalog:    catalog,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.acquirer != acquirer {
				t.Error("expected acquirer to be set")
			}
			if runner.guard != guard {
				t.Error("expected guard to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built from guard and catalog")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("without guard leaves engine nil", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Catalog: services.NewSpotifyService(nil),
			})

			if runner.engine != nil {
				t.Error("expected nil engine without a guard")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				ConfigPath: "/test/path/config.toml",
			})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("compact output", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "{\"key\":\"value\"}\n" {
				t.Errorf("unexpected output: %q", output.String())
			}
		})

		t.Run("pretty output", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "  \"key\": \"value\"") {
				t.Errorf("expected indented output, got %q", output.String())
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("count: %d\n", 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "count: 3\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})
}
