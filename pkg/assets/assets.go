// Package assets persists uploaded video and thumbnail files under
// generated unique names and removes them when their videos are deleted.
package assets

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store is the asset backend: local disk by default, S3 when configured.
type Store interface {
	// Save persists the uploaded file under a generated unique name and
	// returns that name.
	Save(file *multipart.FileHeader) (string, error)
	// Remove deletes a stored file by name.
	Remove(name string) error
}

// LocalStore keeps files in a directory served under the /uploads mount.
type LocalStore struct {
	dir string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore ensures dir exists and returns a store over it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir is the directory files are stored in, for the static mount.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(file *multipart.FileHeader) (string, error) {
	name := uniqueName(file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

func (s *LocalStore) Remove(name string) error {
	// Stored names are uuid-generated; reject anything path-like.
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid asset name %q", name)
	}
	return os.Remove(filepath.Join(s.dir, name))
}

// uniqueName keeps the original extension so MIME detection keeps working
// but replaces the name itself, preventing collisions between uploads.
func uniqueName(original string) string {
	return uuid.New().String() + filepath.Ext(original)
}
