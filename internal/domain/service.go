package domain

import (
	"context"
	"io"
)

// SourceFile is one uploaded photograph, not yet written to disk.
type SourceFile struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

type PanoramaService interface {
	Compose(ctx context.Context, sources []SourceFile) (*Panorama, error)
	GetPanorama(ctx context.Context, id string) (*Panorama, error)
	GetPanoramaImage(ctx context.Context, id string) (io.ReadCloser, string, error)
	GetPanoramaPreview(ctx context.Context, id string) (io.ReadCloser, string, error)
	ListPanoramas(ctx context.Context, limit, offset int) ([]*Panorama, error)
	DeletePanorama(ctx context.Context, id string) error
}
