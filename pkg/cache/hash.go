package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Namespace derives a short, stable key prefix from a project identity,
// typically the absolute path of its Saved directory.
func Namespace(app, project string) string {
	return app + ":" + Hash([]byte(project))[:12] + ":"
}
