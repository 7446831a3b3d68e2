package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenUsable reports whether a cached session token is still worth an
// optimistic paint. The claims are read without signature verification; the
// authoritative check happens server-side either way. Tokens that do not
// parse or carry no expiry are treated as stale.
func tokenUsable(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.After(now)
}
