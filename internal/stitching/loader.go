package stitching

import (
	"github.com/wb-go/wbf/zlog"
	"gocv.io/x/gocv"
)

// LoadImages decodes every path into a color matrix. Paths that fail to
// decode (missing file, corrupt data, unsupported format) are dropped
// without aborting the batch; the second return value is how many were
// dropped. The caller owns the returned matrices and must close them.
func LoadImages(paths []string) ([]gocv.Mat, int) {
	images := make([]gocv.Mat, 0, len(paths))
	skipped := 0

	for _, path := range paths {
		img := gocv.IMRead(path, gocv.IMReadColor)
		if img.Empty() {
			img.Close()
			skipped++
			zlog.Logger.Warn().Str("path", path).Msg("skipping undecodable image")
			continue
		}
		images = append(images, img)
	}

	return images, skipped
}

// CloseAll releases every matrix in the slice.
func CloseAll(images []gocv.Mat) {
	for i := range images {
		images[i].Close()
	}
}
