package util

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"math/big"
)

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GetRandomString generates a random alphanumeric string of the given length.
func GetRandomString(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(tokenCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken;
			// fall back to a fixed charset position rather than panic.
			b[i] = tokenCharset[0]
			continue
		}
		b[i] = tokenCharset[n.Int64()]
	}
	return string(b)
}

// GenerateMailToken derives a hex token from an address and a random salt,
// used for validation and recovery mails.
func GenerateMailToken(email string, saltSize int) string {
	salt := GetRandomString(saltSize)
	sum := sha1.Sum([]byte(email + salt))
	return hex.EncodeToString(sum[:])
}
