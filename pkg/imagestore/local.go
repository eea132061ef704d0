package imagestore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore writes images under a directory served at publicPrefix.
type LocalStore struct {
	basePath     string
	publicPrefix string
}

func NewLocalStore(basePath, publicPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &LocalStore{basePath: basePath, publicPrefix: "/" + strings.Trim(publicPrefix, "/")}, nil
}

func (s *LocalStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey(time.Now(), contentType)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join(s.publicPrefix, key), nil
}

// Delete removes a file previously returned by Upload. A missing file is not an error.
func (s *LocalStore) Delete(url string) error {
	relative := strings.TrimPrefix(url, s.publicPrefix+"/")
	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(relative)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
