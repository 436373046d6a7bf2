// Package upload stores multipart file uploads on the local filesystem.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

type Storage struct {
	dir string
}

func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Name prefixes the original filename with a millisecond timestamp.
// The scheme is not collision-safe; two uploads of the same file within
// the same millisecond overwrite each other.
func Name(original string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(original))
}

// Save writes the uploaded file under the storage directory and returns
// the stored filename.
func (s *Storage) Save(fh *multipart.FileHeader) (string, error) {
	name := Name(fh.Filename)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return name, nil
}

// Dir returns the storage directory, used for serving files statically.
func (s *Storage) Dir() string {
	return s.dir
}
