package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// apiTokenSize is the entropy of a generated API token in bytes.
const apiTokenSize = 32

// GenerateToken creates a cryptographically random opaque API token.
// The token carries no claims; it is validated by looking up its hash in
// the store. Returns the token in base64-urlencoded form.
func GenerateToken() (string, error) {
	b := make([]byte, apiTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate api token: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// HashToken creates the hash of an API token for database storage.
// We store hashed tokens so a database compromise doesn't leak usable
// credentials. SHA-256 is sufficient here: the input is 256 bits of
// random data, not a guessable password.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
