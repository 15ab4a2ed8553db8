// Package storage abstracts where listing images live so deleting a product
// can release its image file.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Releaser removes a stored image by its repository-relative path.
type Releaser interface {
	Release(path string) error
}

// Local stores images under a root directory on the local filesystem.
type Local struct {
	root string
}

// NewLocal creates a local image store rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{root: dir}
}

// Release removes the image file at the given relative path. A missing file
// is not an error; the listing row may outlive a manually pruned upload.
func (l *Local) Release(path string) error {
	clean := filepath.Clean(path)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid image path %q", path)
	}

	if err := os.Remove(filepath.Join(l.root, clean)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}

	return nil
}

// Nop is a Releaser that does nothing. Used when uploads are disabled.
type Nop struct{}

// Release discards the request.
func (Nop) Release(_ string) error { return nil }
