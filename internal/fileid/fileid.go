// Package fileid derives a deterministic document ID from a source file path.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "doc:"

// DocID returns a stable document ID for the given path. The same path
// always yields the same ID, so re-analyzing a file addresses the same
// document and cache entry.
func DocID(path string) string {
	normalized := filepath.Clean(path)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:])
}

// ContentID returns a stable document ID for in-memory content with no
// canonical path, such as an uploaded file. Identical bytes always yield
// the same ID regardless of the upload's file name.
func ContentID(content []byte) string {
	hash := sha256.Sum256(content)
	return prefix + hex.EncodeToString(hash[:])
}
