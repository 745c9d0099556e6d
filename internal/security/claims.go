package security

import "time"

// TokenClaims is the verified content of a backend access token. UserID comes
// from the subject claim; the privilege role is NOT in the token and must be
// looked up per request.
type TokenClaims struct {
	UserID string
	Email  string
	Exp    time.Time
	Issuer string
}
