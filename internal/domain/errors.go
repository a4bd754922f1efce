package domain

import "errors"

var (
	ErrPanoramaNotFound    = errors.New("panorama not found")
	ErrInsufficientImages  = errors.New("at least two decodable images are required")
	ErrStitchingFailed     = errors.New("stitching failed")
	ErrArtifactUnavailable = errors.New("panorama image is not available")
	ErrInvalidFormat       = errors.New("invalid or unsupported image format")
	ErrFileTooLarge        = errors.New("file size exceeds maximum allowed")
	ErrStorageFailed       = errors.New("storage operation failed")
)
