package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/colonyops/pixelfeed/internal/core/blob"
)

// ErrExists is returned when uploading to a path that already holds an object.
var ErrExists = errors.New("object already exists")

// Local stores objects as files below a root directory.
// It is safe for concurrent use.
type Local struct {
	root    string
	baseURL string
}

var _ blob.Storage = (*Local)(nil)

// NewLocal creates the root directory if needed. baseURL prefixes public
// URLs; when empty, URLs are file:// paths.
func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage root is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Local{root: abs, baseURL: baseURL}, nil
}

// Upload writes r to path. It fails with ErrExists rather than overwrite.
func (l *Local) Upload(ctx context.Context, path string, r io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full, err := l.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return fmt.Errorf("write file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// URL returns the public URL for path.
func (l *Local) URL(path string) string {
	key, err := cleanKey(path)
	if err != nil {
		return ""
	}
	if l.baseURL == "" {
		return "file://" + filepath.ToSlash(filepath.Join(l.root, filepath.FromSlash(key)))
	}
	return joinURL(l.baseURL, key)
}

// Delete removes the file at path. Missing files are ignored.
func (l *Local) Delete(_ context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (l *Local) resolve(path string) (string, error) {
	key, err := cleanKey(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(key)), nil
}
