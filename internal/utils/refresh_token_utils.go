package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashRefreshToken returns the hex-encoded SHA256 hash of a raw refresh token.
// Only the hash is stored server side.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CompareRefreshTokenHash reports whether the raw token matches the stored hash.
func CompareRefreshTokenHash(token string, storedHash string) bool {
	return HashRefreshToken(token) == storedHash
}
