// Package random provides cryptographically secure random value helpers.
package random

import (
	"crypto/rand"
	"encoding/base64"
)

// IDLength is the byte length of generated record identifiers.
const IDLength = 32

// ID generates a high-entropy opaque identifier.
//
// The returned ID is Base64 URL encoded for safe transmission and
// decodes to IDLength random bytes.
func ID() (string, error) {
	return StringWithLength(IDLength)
}

// StringWithLength generates a Base64 URL encoded random string that
// decodes to length bytes.
func StringWithLength(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// Bytes generates length random bytes.
func Bytes(length int) ([]byte, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	return bytes, nil
}
