package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the bearer token payload issued by the host identity system.
type JWTClaims struct {
	UserID     int64  `json:"user_id"`
	SiteAdmin  bool   `json:"site_admin"`
	SessionKey string `json:"sesskey"`
	jwt.RegisteredClaims
}

// Caller identifies the user on whose behalf an operation runs.
type Caller struct {
	UserID     int64
	SiteAdmin  bool
	SessionKey string
}

// Caller converts the claims into the identity passed to services.
func (c *JWTClaims) Caller() Caller {
	if c == nil {
		return Caller{}
	}
	return Caller{UserID: c.UserID, SiteAdmin: c.SiteAdmin, SessionKey: c.SessionKey}
}
