package domain

import "context"

type PanoramaRepository interface {
	Create(ctx context.Context, pano *Panorama) error
	FindByID(ctx context.Context, id string) (*Panorama, error)
	List(ctx context.Context, limit, offset int) ([]*Panorama, error)
	FindByStatus(ctx context.Context, status ComposeStatus, limit, offset int) ([]*Panorama, error)
	Delete(ctx context.Context, id string) error
}
