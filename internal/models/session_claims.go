package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the claims carried by the identity provider's session
// token. The subject is the provider's user id.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email           string `json:"email,omitempty"`
	Name            string `json:"name,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	AuthorizedParty string `json:"azp,omitempty"`
	SessionID       string `json:"sid,omitempty"`
}
