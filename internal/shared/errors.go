package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrCredentialUnavailable = fmt.Errorf("service credential unavailable")
	ErrAuthExchange          = fmt.Errorf("token exchange failed")
	ErrInvalidAuthCode       = fmt.Errorf("invalid authorization code")
	ErrInvalidRefreshToken   = fmt.Errorf("invalid refresh token")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNoTracksGenerated  = fmt.Errorf("no tracks generated")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
