package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword derives an argon2id hash and encodes it as
// base64(salt).base64(hash).
func HashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	encoded := base64.StdEncoding.EncodeToString(salt) + "." + base64.StdEncoding.EncodeToString(hash)
	return encoded, nil
}

// VerifyPassword checks a plaintext password against a stored salt.hash pair
// in constant time.
func VerifyPassword(password, encoded string) error {
	parts := strings.Split(encoded, ".")
	if len(parts) != 2 {
		return errors.New("invalid encoded hash format")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return errors.New("failed to decode salt")
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return errors.New("failed to decode hash")
	}

	candidate := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	if subtle.ConstantTimeCompare(candidate, hash) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
