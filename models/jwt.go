package models

// BatchClaims are the claims carried by a caller's bearer token.
type BatchClaims struct {
	Issuer    string `json:"iss,omitempty"` // optional
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
