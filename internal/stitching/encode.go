package stitching

import (
	"fmt"

	"gocv.io/x/gocv"
)

// DefaultJPEGQuality is used when the configured quality is out of range.
const DefaultJPEGQuality = 95

// EncodeJPEG serializes the matrix as JPEG bytes.
func EncodeJPEG(img gocv.Mat, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	// The native buffer is freed on Close, so hand back a copy.
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}
