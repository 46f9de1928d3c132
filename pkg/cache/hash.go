package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// namespacedKey hashes the JSON encoding of parts and prefixes the result
// with ns, giving keys such as "layout:3f2a...". Parts must be JSON
// encodable; the encoding of plain strings and structs cannot fail.
func namespacedKey(ns string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return ns + ":" + Hash(data)
}
