// Package tokens inspects access tokens locally.
//
// Nothing here verifies a signature: the client has no key and the server's
// 401 stays the authoritative answer. The expiry read from a token is only
// used to skip a request that would certainly be rejected.
package tokens

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser()

// ExpiresAt returns the exp claim of a JWT. Opaque or malformed tokens yield
// common.ErrInvalidToken; tokens without exp yield common.ErrNoExpiry.
func ExpiresAt(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, common.ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// Expired reports whether token is known to be expired at now, treating
// tokens that expire within skew as already expired. known is false when the
// expiry cannot be read locally.
func Expired(token string, now time.Time, skew time.Duration) (expired, known bool) {
	exp, err := ExpiresAt(token)
	if err != nil {
		return false, false
	}
	return !now.Add(skew).Before(exp), true
}
