package tokens

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestExpiresAt(t *testing.T) {
	exp := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	tok := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := ExpiresAt(tok)
	require.NoError(t, err)
	require.True(t, exp.Equal(got), "got %v", got)
}

func TestExpiresAt_IgnoresSignatureAndExpiry(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	tok := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(past)})

	got, err := ExpiresAt(tok)
	require.NoError(t, err)
	require.WithinDuration(t, past, got, time.Second)
}

func TestExpiresAt_NoExp(t *testing.T) {
	tok := sign(t, jwt.MapClaims{"user_id": 7})
	_, err := ExpiresAt(tok)
	require.ErrorIs(t, err, common.ErrNoExpiry)
}

func TestExpiresAt_Opaque(t *testing.T) {
	for _, tok := range []string{"A1", "", "a.b.c", "9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b"} {
		_, err := ExpiresAt(tok)
		require.ErrorIs(t, err, common.ErrInvalidToken, tok)
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		token       string
		skew        time.Duration
		wantExpired bool
		wantKnown   bool
	}{
		{name: "future", token: sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}), wantExpired: false, wantKnown: true},
		{name: "past", token: sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}), wantExpired: true, wantKnown: true},
		{name: "exactly now", token: sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now)}), wantExpired: true, wantKnown: true},
		{name: "within skew", token: sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Second))}), skew: 10 * time.Second, wantExpired: true, wantKnown: true},
		{name: "opaque", token: "A1", wantExpired: false, wantKnown: false},
		{name: "no exp", token: sign(t, jwt.MapClaims{"sub": "7"}), wantExpired: false, wantKnown: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expired, known := Expired(tt.token, now, tt.skew)
			require.Equal(t, tt.wantExpired, expired)
			require.Equal(t, tt.wantKnown, known)
		})
	}
}
