// Package domain holds the core entities of the Ladle recipe server.
package domain

// User represents a registered account in the system.
type User struct {
	Timestamps
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	IsActive     bool   `json:"is_active"`
	IsStaff      bool   `json:"is_staff"`
}

// CanLogin reports whether the account may authenticate.
// Deactivated accounts keep their data but are rejected at the token endpoint.
func (u *User) CanLogin() bool {
	return u.IsActive
}
