package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/sha3"
)

// HashPassword computes the salted password digest: SHA3-256(salt ‖ password).
//
// The salt is a per-account random value generated at signup; the
// plaintext password is never stored.
func HashPassword(password string, salt []byte) []byte {
	hasher := sha3.New256()
	hasher.Write(salt)
	hasher.Write([]byte(password))
	return hasher.Sum(nil)
}

// VerifyPassword checks a password against the stored digest using a
// constant-time comparison.
func VerifyPassword(password string, salt, digest []byte) bool {
	actual := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(actual, digest) == 1
}
