// Package models defines domain entities passed between the service layers.
//
// The package contains lightweight value types only:
//   - [Track] : A catalog item resolved from a free-text query
//   - [Playlist] : Playlist metadata from the Spotify API
//   - [UserCredential] : The result of a user-delegated OAuth exchange
//   - [PlaylistRequest] : Input for playlist creation under a user account
//
// All types are plain data with no behavior besides pure copy transforms.
// [UserCredential] in particular has no server-side owner; it crosses the
// request/response boundary and is never persisted by this process.
package models
