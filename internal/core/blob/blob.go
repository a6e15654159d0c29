// Package blob defines the object storage used for gallery images.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidPath is returned for object paths that are empty or escape the
// storage root.
var ErrInvalidPath = errors.New("invalid object path")

// Storage stores binary objects under slash-separated paths.
type Storage interface {
	// Upload writes r to path. Existing objects are not overwritten.
	Upload(ctx context.Context, path string, r io.Reader, contentType string) error
	// URL returns the public URL of the object at path.
	URL(path string) string
	// Delete removes the object at path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error
}
