package model

import "time"

// TokenClaims is the verified identity carried by a session token.
type TokenClaims struct {
	TokenID    string    `json:"token_id"`
	EmployeeID string    `json:"employee_id"`
	Role       string    `json:"role"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// RevokedToken is a denylist entry keyed by the token's JTI. ExpiresAt
// matches the token's own expiry, so a TTL index keeps the denylist bounded.
type RevokedToken struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	RevokedAt time.Time `bson:"revoked_at" json:"revoked_at"`
}
