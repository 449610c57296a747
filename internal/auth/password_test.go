package auth

import (
	"bytes"
	"testing"

	"github.com/nearhand/nearhand-go/pkg/random"
)

func TestHashPassword_Deterministic(t *testing.T) {
	salt, err := random.Bytes(32)
	if err != nil {
		t.Fatal(err)
	}

	first := HashPassword("hunter2", salt)
	second := HashPassword("hunter2", salt)

	if !bytes.Equal(first, second) {
		t.Error("HashPassword() is not deterministic for the same salt")
	}
	if len(first) != 32 {
		t.Errorf("digest length = %d, want 32", len(first))
	}
}

func TestHashPassword_SaltMatters(t *testing.T) {
	saltA, _ := random.Bytes(32)
	saltB, _ := random.Bytes(32)

	if bytes.Equal(HashPassword("hunter2", saltA), HashPassword("hunter2", saltB)) {
		t.Error("identical digests for different salts")
	}
}

func TestVerifyPassword(t *testing.T) {
	salt, _ := random.Bytes(32)
	digest := HashPassword("hunter2", salt)

	if !VerifyPassword("hunter2", salt, digest) {
		t.Error("VerifyPassword() rejected the correct password")
	}
	if VerifyPassword("hunter3", salt, digest) {
		t.Error("VerifyPassword() accepted a wrong password")
	}
	if VerifyPassword("hunter2", salt, digest[:len(digest)-1]) {
		t.Error("VerifyPassword() accepted a truncated digest")
	}
}
