package couponcode

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
)

var ErrCodeGeneration = errors.New("failed to generate coupon code")

const DefaultCodeBytes = 16

// Generate returns a url-safe random code. The plaintext is shown to the
// caller exactly once; only the hash is persisted.
func Generate(numBytes int) (string, error) {
	if numBytes <= 0 {
		numBytes = DefaultCodeBytes
	}
	buf := make([]byte, numBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", ErrCodeGeneration
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func Hash(code string) []byte {
	sum := sha256.Sum256([]byte(code))
	return sum[:]
}

// Verify compares a presented code against a stored hash in constant time.
// Timing must not reveal how much of a candidate hash matched.
func Verify(code string, storedHash []byte) bool {
	sum := sha256.Sum256([]byte(code))
	return subtle.ConstantTimeCompare(sum[:], storedHash) == 1
}
