package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims carried by an unlocked session token. The
// catalogue has one implicit owner, so Subject is always the owner name.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}
