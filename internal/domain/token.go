package domain

import "time"

// APIToken is the single opaque credential issued to a user.
// Only a hash of the token is stored; the plaintext is returned once at
// issuance. Tokens do not expire and are replaced only when the user
// requests a new one.
type APIToken struct {
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash,omitempty"` // Stored hashed, filter from API responses
	CreatedAt time.Time `json:"created_at"`
}
