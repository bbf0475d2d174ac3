// Package server provides HTTP routing, middleware, and the JSON API for playlist generation.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the resulting user credential through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # JSON API
//
// PlaylistHandler exposes the generation facade over HTTP: generating a track
// list from a free-text message, persisting it as a playlist under the
// caller's account, refreshing user tokens, and listing the caller's
// playlists. User requests authenticate with a Bearer token; the service
// credential used for catalog searches is managed internally.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
