package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/panostitcher/internal/config"
)

// ErrObjectNotFound is returned when a stored artifact does not exist so
// callers can tell "not found" apart from every other storage failure.
var ErrObjectNotFound = errors.New("object not found")

// Storage persists composed panoramas and their previews. The namespace is
// append-only: every artifact is written once under a unique name and is
// never rewritten by another request.
type Storage interface {
	SaveOutput(ctx context.Context, filename string, reader io.Reader) (string, error)
	SavePreview(ctx context.Context, filename string, reader io.Reader) (string, error)
	GetOutput(ctx context.Context, path string) (io.ReadCloser, error)
	GetPreview(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	DeleteAll(ctx context.Context, outputPath, previewPath string) error
}

func New(cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "local":
		zlog.Logger.Info().Msg("Initializing local storage")
		return NewLocalStorage(cfg)
	case "s3":
		zlog.Logger.Info().Msg("Initializing S3 storage")
		return NewS3Storage(cfg)
	default:
		zlog.Logger.Error().Str("type", cfg.Type).Msg("Unsupported storage type, use 'local' or 's3'")
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
