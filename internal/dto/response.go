package dto

import (
	"time"

	"github.com/yokitheyo/panostitcher/internal/domain"
)

type PanoramaResponse struct {
	ID           string    `json:"id"`
	SourceCount  int       `json:"source_count"`
	DecodedCount int       `json:"decoded_count"`
	SkippedCount int       `json:"skipped_count"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	SizeBytes    int64     `json:"size_bytes,omitempty"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// URLs
	ImageURL   string `json:"image_url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
}

type PanoramaListResponse struct {
	Panoramas []*PanoramaResponse `json:"panoramas"`
	Total     int                 `json:"total"`
	Limit     int                 `json:"limit"`
	Offset    int                 `json:"offset"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func MapPanoramaToResponse(pano *domain.Panorama, baseURL string) *PanoramaResponse {
	if pano == nil {
		return nil
	}

	resp := &PanoramaResponse{
		ID:           pano.ID,
		SourceCount:  pano.SourceCount,
		DecodedCount: pano.DecodedCount,
		SkippedCount: pano.SkippedCount,
		Width:        pano.Width,
		Height:       pano.Height,
		SizeBytes:    pano.SizeBytes,
		Status:       string(pano.Status),
		ErrorMessage: pano.ErrorMessage,
		CreatedAt:    pano.CreatedAt,
	}

	if pano.IsCompleted() {
		resp.ImageURL = baseURL + "/panoramas/" + pano.ID + "/image"
		if pano.PreviewPath != "" {
			resp.PreviewURL = baseURL + "/panoramas/" + pano.ID + "/preview"
		}
	}

	return resp
}

func MapPanoramasToResponse(panoramas []*domain.Panorama, baseURL string, limit, offset int) *PanoramaListResponse {
	responses := make([]*PanoramaResponse, 0, len(panoramas))
	for _, pano := range panoramas {
		responses = append(responses, MapPanoramaToResponse(pano, baseURL))
	}

	return &PanoramaListResponse{
		Panoramas: responses,
		Total:     len(responses),
		Limit:     limit,
		Offset:    offset,
	}
}
