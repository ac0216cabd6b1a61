package auth

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims carried by both access and refresh
// tokens. UserID and Username together identify the authenticated caller;
// handlers never need a second lookup to resolve the subject.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
}
