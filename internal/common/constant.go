// Package common contains shared constants and sentinel errors used across
// gymclient components.
package common

// Keys under which the session is persisted in the credential store.
const (
	KeyAccess  = "access"
	KeyRefresh = "refresh"
	KeyUserID  = "userId"
)

// SessionKeys lists every key that belongs to a session, in the order they
// are written on login.
var SessionKeys = []string{KeyAccess, KeyRefresh, KeyUserID}

// HTTP header names used on outbound requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerScheme            = "Bearer"
)
