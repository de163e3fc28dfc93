package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

const (
	// saltLength matches the HMAC-SHA512 output size; the salt doubles as the MAC key.
	saltLength = 64

	// tokenLength is the number of random bytes behind verification and reset tokens.
	tokenLength = 64
)

// HashPassword derives a keyed HMAC-SHA512 hash of the password using a fresh
// random key. The key doubles as the per-user salt and must be stored alongside
// the hash so the password can be verified later.
func HashPassword(password string) (hash, salt []byte, err error) {
	salt = make([]byte, saltLength)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, err
	}

	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil), salt, nil
}

// VerifyPassword recomputes the HMAC of the candidate password with the stored
// salt and compares it against the stored hash in constant time.
func VerifyPassword(password string, hash, salt []byte) bool {
	if len(hash) == 0 || len(salt) == 0 {
		return false
	}

	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return hmac.Equal(mac.Sum(nil), hash)
}

// GenerateToken returns a 128-character uppercase hex token drawn from a
// cryptographically secure random source. Uniqueness is statistical; collisions
// are not treated as an error case.
func GenerateToken() (string, error) {
	buffer := make([]byte, tokenLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buffer)), nil
}
