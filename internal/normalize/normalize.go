// Package normalize provides utilities for normalizing and sanitizing user input.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Email normalizes an email address for storage and comparison.
// The domain part is lowercased; the local part is preserved as entered,
// since local parts are case-sensitive per RFC 5321 even though almost no
// provider treats them that way.
func Email(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// EmailKey returns the form of an email used for uniqueness checks.
// Fully lowercased, so "Test@Gmail.com" and "test@gmail.com" collide.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Name normalizes a tag, ingredient, or recipe name: Unicode NFC
// composition plus whitespace collapse, so "Crème  brûlée" stored from
// different clients compares equal.
func Name(name string) string {
	name = norm.NFC.String(name)
	return strings.Join(strings.Fields(name), " ")
}
