package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a signed session JWT.
//
// SignedString is the compact form carried in the Authorization header.
// IdentityID is the parsed "sub" claim.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	SignedString string `json:"-"`
	IdentityID   string `json:"-"`
}

// String returns the compact JWS serialization of the token.
func (t Token) String() string {
	return t.SignedString
}
