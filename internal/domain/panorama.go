package domain

import (
	"time"
)

type ComposeStatus string

const (
	StatusCompleted ComposeStatus = "completed"
	StatusFailed    ComposeStatus = "failed"
)

// Panorama is the record of one composition request. It is created once,
// after the pipeline has run, and never mutated afterwards.
type Panorama struct {
	ID           string        `json:"id"`
	SourceCount  int           `json:"source_count"`
	DecodedCount int           `json:"decoded_count"`
	SkippedCount int           `json:"skipped_count"`
	Width        int           `json:"width,omitempty"`
	Height       int           `json:"height,omitempty"`
	SizeBytes    int64         `json:"size_bytes,omitempty"`
	OutputPath   string        `json:"output_path,omitempty"`
	PreviewPath  string        `json:"preview_path,omitempty"`
	Status       ComposeStatus `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

func (p *Panorama) IsCompleted() bool {
	return p.Status == StatusCompleted
}

func (p *Panorama) IsFailed() bool {
	return p.Status == StatusFailed
}
