package auth

import (
	"crypto/hmac"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/nearhand/nearhand-go/pkg/random"
)

const (
	// TokenTTL is the lifetime of an issued token.
	TokenTTL = 24 * time.Hour

	// KeyLength is the byte length of the secret MAC key.
	KeyLength = 32

	// NonceLength is the byte length of the per-token nonce.
	NonceLength = 12
)

// GenerateKey generates a fresh secret key.
//
// The key is created once at process start, held only in memory, and
// never persisted or rotated.
func GenerateKey() ([]byte, error) {
	return random.Bytes(KeyLength)
}

// Authenticator issues and validates expiring, MAC-protected bearer
// tokens bound to a username.
//
// The secret key is set at construction and never mutated afterward,
// so concurrent use requires no synchronization.
type Authenticator struct {
	key    []byte
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthenticator creates an Authenticator around the secret key.
func NewAuthenticator(key []byte, logger *slog.Logger) (*Authenticator, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("auth: key must be %d bytes, got %d", KeyLength, len(key))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Authenticator{
		key:    key,
		logger: logger,
		now:    time.Now,
	}, nil
}

// tokenPayload is the serialized token shape. The nonce and mac are
// carried Base64 encoded by encoding/json.
type tokenPayload struct {
	Username       string `json:"username"`
	ExpirationTime int64  `json:"expirationTime"` // Unix seconds
	Nonce          []byte `json:"nonce"`
	MAC            []byte `json:"mac"`
}

// CreateToken issues a token for the username, valid for TokenTTL.
func (a *Authenticator) CreateToken(username string) (string, error) {
	expiration := a.now().Add(TokenTTL).Unix()

	nonce, err := random.Bytes(NonceLength)
	if err != nil {
		return "", fmt.Errorf("auth: generate nonce: %w", err)
	}

	payload := tokenPayload{
		Username:       username,
		ExpirationTime: expiration,
		Nonce:          nonce,
		MAC:            a.mac(username, expiration, nonce),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("auth: encode token: %w", err)
	}

	a.logger.Debug("issued token", "username", username)
	return string(data), nil
}

// ValidateToken parses and verifies a token string.
//
// Returns the bound username and true when the token parses, has not
// expired, and its MAC verifies under the live key in constant time.
// Any failure rejects the token.
func (a *Authenticator) ValidateToken(token string) (string, bool) {
	var payload tokenPayload
	if err := json.Unmarshal([]byte(token), &payload); err != nil {
		a.logger.Debug("rejected malformed token")
		return "", false
	}

	if a.now().Unix() > payload.ExpirationTime {
		a.logger.Info("rejected expired token", "username", payload.Username)
		return "", false
	}

	expected := a.mac(payload.Username, payload.ExpirationTime, payload.Nonce)
	if !hmac.Equal(payload.MAC, expected) {
		// A MAC mismatch means tampering or a token from a previous
		// process lifetime; either way it is a security event.
		a.logger.Warn("rejected token with invalid MAC", "username", payload.Username)
		return "", false
	}

	return payload.Username, true
}

// mac computes HMAC-SHA3-256 over username ‖ big-endian(expiration) ‖ nonce.
func (a *Authenticator) mac(username string, expiration int64, nonce []byte) []byte {
	var expirationBytes [8]byte
	binary.BigEndian.PutUint64(expirationBytes[:], uint64(expiration))

	mac := hmac.New(sha3.New256, a.key)
	mac.Write([]byte(username))
	mac.Write(expirationBytes[:])
	mac.Write(nonce)
	return mac.Sum(nil)
}
