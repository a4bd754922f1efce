package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wb-go/wbf/zlog"
)

// UploadStore keeps incoming source photographs on the local filesystem.
// Unlike Storage it is always local: the stitching pipeline decodes
// sources by file path, so uploads cannot live behind S3.
type UploadStore struct {
	dir string
}

func NewUploadStore(dir string) (*UploadStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &UploadStore{dir: dir}, nil
}

// Save writes one source file and returns the path it was stored under.
func (s *UploadStore) Save(filename string, reader io.Reader) (string, error) {
	if reader == nil {
		return "", fmt.Errorf("reader is nil")
	}

	fullPath := filepath.Join(s.dir, filename)

	file, err := os.Create(fullPath)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to create upload file")
		return "", fmt.Errorf("create upload %s: %w", fullPath, err)
	}
	defer file.Close()

	written, err := io.Copy(file, reader)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to write upload file")
		return "", fmt.Errorf("write upload %s: %w", fullPath, err)
	}

	zlog.Logger.Info().
		Str("path", fullPath).
		Int64("bytes", written).
		Msg("upload saved")

	return fullPath, nil
}

// Remove deletes a previously saved upload. Missing files are ignored.
func (s *UploadStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload %s: %w", path, err)
	}
	return nil
}
