package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// EncodeSHA256 returns the hex SHA-256 of content, used for node content hashes.
func EncodeSHA256(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
