// Package models holds the client-side data shapes: the persisted session
// and the gym resources returned by the backend.
package models

// Session is the authenticated state kept in the credential store.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
}

// LoginRequest is the body of POST /user/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the successful reply of POST /user/login/.
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	UserID  int64  `json:"userId"`
}

// RefreshRequest is the body of POST /token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenPair is the reply of POST /token/refresh/. Refresh is only present
// when the backend rotates refresh tokens.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
