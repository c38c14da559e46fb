package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads"

var ErrOutsideRoot = errors.New("path escapes upload root")

// FileStore writes listing images to the local filesystem using the layout
// uploads/cars/{listingId}/{file}. Public URLs mirror the on-disk layout.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Root returns the upload root directory, for static-asset serving.
func (s *FileStore) Root() string {
	return s.root
}

// Save writes the file under the listing's directory and returns its public
// URL path.
func (s *FileStore) Save(carID uint, filename string, r io.Reader) (string, error) {
	dir := filepath.Join(s.root, "cars", fmt.Sprintf("%d", carID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/cars/%d/%s", URLPrefix, carID, filename), nil
}

// Remove deletes the file behind a public URL. A file already missing on disk
// is not an error.
func (s *FileStore) Remove(imageURL string) error {
	rel := strings.TrimPrefix(imageURL, URLPrefix+"/")
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return ErrOutsideRoot
	}

	err := os.Remove(filepath.Join(s.root, rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
