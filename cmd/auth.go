package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/musicai/internal/models"
	"github.com/desertthunder/musicai/internal/server"
	"github.com/desertthunder/musicai/internal/shared"
	"github.com/desertthunder/musicai/internal/ui"
	"github.com/urfave/cli/v3"
)

// AuthLogin performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local HTTP server, opens browser for user authorization, and exchanges the auth code for a user credential.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.acquirer == nil {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	credential, err := r.doOAuth(ctx)
	if err != nil {
		return err
	}

	r.writePlain("%s\n\n", ui.OK("Authorization successful"))
	if err := r.writeJSON(credential, true); err != nil {
		return err
	}
	r.writePlain("\n%s\n", ui.Help("Pass the access_token to commands via --token. Tokens are not persisted."))

	return nil
}

// AuthURL prints the authorization URL for manual flows.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	if r.acquirer == nil {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	state := shared.GenerateID()
	r.writePlain("%s\n", r.acquirer.AuthorizationURL(state))
	r.writePlain("%s\n", ui.Help(fmt.Sprintf("state: %s", state)))

	return nil
}

// AuthRefresh exchanges a refresh token for a fresh user credential.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	if r.acquirer == nil {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	credential, err := r.acquirer.Refresh(ctx, cmd.String("token"))
	if err != nil {
		return err
	}

	return r.writeJSON(credential, true)
}

// AuthStatus reports whether a service credential can be acquired.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.guard == nil {
		r.writePlain("%s\n", ui.Err("Spotify credentials not configured"))
		return nil
	}

	if err := r.guard.Initialize(ctx); err != nil {
		r.writePlain("%s\n", ui.Err("Service credential unavailable: %v", err))
		return nil
	}

	r.writePlain("%s\n", ui.OK("Service credential acquired"))
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context) (models.UserCredential, error) {
	var credential models.UserCredential

	state := shared.GenerateID()
	authURL := r.acquirer.AuthorizationURL(state)

	oauthHandler := server.NewOAuthHandler(r.acquirer, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlain("%s\n", ui.Warn("Could not open browser automatically."))
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return credential, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return credential, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return credential, fmt.Errorf("authorization failed: %w", result.Error())
	}

	return result.Credential, nil
}
