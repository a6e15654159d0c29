// Package blobstore implements blob.Storage on the local filesystem and on
// S3-compatible object stores.
package blobstore

import (
	"fmt"
	"path"
	"strings"

	"github.com/colonyops/pixelfeed/internal/core/blob"
)

// cleanKey normalizes an object path and rejects ones that would escape the
// storage root.
func cleanKey(p string) (string, error) {
	trimmed := strings.TrimPrefix(p, "/")
	if trimmed == "" || strings.Contains(trimmed, "\\") {
		return "", fmt.Errorf("%q: %w", p, blob.ErrInvalidPath)
	}

	for _, part := range strings.Split(trimmed, "/") {
		if part == ".." {
			return "", fmt.Errorf("%q: %w", p, blob.ErrInvalidPath)
		}
	}

	cleaned := path.Clean(trimmed)
	if cleaned == "." {
		return "", fmt.Errorf("%q: %w", p, blob.ErrInvalidPath)
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	if base == "" {
		return key
	}
	return strings.TrimSuffix(base, "/") + "/" + key
}
