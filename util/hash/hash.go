// util/hash/hash.go
package hash

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters for admin passwords. Stored hashes depend on these, so
// changing them invalidates existing credentials.
const (
	iterations = 65536
	keyLen     = 16
	saltLen    = 16
)

// Password derives the PBKDF2-HMAC-SHA1 hash of a password with the given salt.
func Password(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha1.New)
}

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		panic(err)
	}
	return salt
}

// Equal compares two hashes in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Encode renders raw bytes for storage in env/config files.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode reverses Encode.
func Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
