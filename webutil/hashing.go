package webutil

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// GenerateHash creates a SHA-256 hash of the input string and returns it
// as a hexadecimal string.
func GenerateHash(data string) (string, error) {
	hasher := sha256.New()
	_, err := hasher.Write([]byte(data))
	if err != nil {
		return "", fmt.Errorf("failed to write data to hasher: %w", err)
	}
	hashBytes := hasher.Sum(nil)
	return hex.EncodeToString(hashBytes), nil
}

// CanonicalJSONMD5 hashes a JSON document independent of key order and
// whitespace: the input is decoded and re-encoded (Go serializes map keys
// sorted), then MD5-hashed. Used for export trace headers, where two
// submissions of the same logical document must hash identically.
func CanonicalJSONMD5(data string) (string, error) {
	var doc any
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return "", fmt.Errorf("failed to parse JSON for hashing: %w", err)
	}
	canonical, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize JSON: %w", err)
	}
	sum := md5.Sum(canonical)
	return hex.EncodeToString(sum[:]), nil
}
