// Package client talks to the gym backend over HTTP/JSON and owns the
// session token lifecycle.
//
// # Overview
//
// HTTPClient is the single place where bearer authentication happens:
//
//  1. Login stores the access token, refresh token and user id in the
//     credential store.
//  2. Do (the authenticated request wrapper) attaches the stored access
//     token, refreshes it once on a 401 (or earlier, when the token is known
//     to be expired) and retries the request exactly once.
//  3. RefreshAccessToken exchanges the refresh token for a new access token
//     and persists it before returning. Any failure tears the session down.
//
// Gym endpoints (Profile, Classes, BookClass, CancelBooking, Events) are thin
// typed wrappers around Do.
//
// # Error Handling
//
// Sentinels matched with errors.Is: ErrUnavailable, ErrSessionExpired,
// ErrRefreshFailed, ErrNotLoggedIn, ErrStaleResponse. Other non-2xx replies
// are *RequestFailedError (errors.As).
//
// # Concurrency
//
// HTTPClient is safe for concurrent use. Concurrent refreshes collapse into
// a single call through singleflight; a request whose token was already
// replaced by another caller reuses the stored token. A generation counter,
// bumped on every login, logout and teardown, drops responses that belong to
// a previous session. A refresh started under an older session neither
// stores its token nor clears the current session.
package client
