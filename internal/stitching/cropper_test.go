package stitching

import (
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/wb-go/wbf/zlog"
	"gocv.io/x/gocv"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func TestCropBordersRemovesBlackPadding(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		cols    int
		content image.Rectangle
	}{
		{"centered content", 200, 300, image.Rect(40, 30, 260, 170)},
		{"content at origin", 150, 200, image.Rect(0, 0, 120, 90)},
		{"thin bottom band", 100, 400, image.Rect(10, 60, 390, 95)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := gocv.NewMatWithSize(tt.rows, tt.cols, gocv.MatTypeCV8UC3)
			defer src.Close()
			gocv.Rectangle(&src, tt.content, white, -1)

			cropped := CropBorders(src, DefaultCropKernelSize)
			defer cropped.Close()

			wantW := tt.content.Dx()
			wantH := tt.content.Dy()

			// Closing may grow the mask by a few pixels; it must never
			// exceed the source.
			if cropped.Cols() < wantW-2 || cropped.Cols() > wantW+6 {
				t.Errorf("width: got %d, want about %d", cropped.Cols(), wantW)
			}
			if cropped.Rows() < wantH-2 || cropped.Rows() > wantH+6 {
				t.Errorf("height: got %d, want about %d", cropped.Rows(), wantH)
			}
			if cropped.Cols() > src.Cols() || cropped.Rows() > src.Rows() {
				t.Errorf("crop exceeds source: got %dx%d, source %dx%d",
					cropped.Cols(), cropped.Rows(), src.Cols(), src.Rows())
			}
		})
	}
}

func TestCropBordersAllBlackUnchanged(t *testing.T) {
	src := gocv.NewMatWithSize(120, 180, gocv.MatTypeCV8UC3)
	defer src.Close()

	cropped := CropBorders(src, DefaultCropKernelSize)
	defer cropped.Close()

	if cropped.Cols() != src.Cols() || cropped.Rows() != src.Rows() {
		t.Errorf("all-black image must come back unchanged: got %dx%d, want %dx%d",
			cropped.Cols(), cropped.Rows(), src.Cols(), src.Rows())
	}
}

func TestCropBordersIdempotent(t *testing.T) {
	src := gocv.NewMatWithSize(200, 300, gocv.MatTypeCV8UC3)
	defer src.Close()
	gocv.Rectangle(&src, image.Rect(50, 40, 250, 160), white, -1)

	once := CropBorders(src, DefaultCropKernelSize)
	defer once.Close()

	twice := CropBorders(once, DefaultCropKernelSize)
	defer twice.Close()

	// A borderless image must not keep shrinking.
	if twice.Cols() < once.Cols()-2 || twice.Rows() < once.Rows()-2 {
		t.Errorf("second crop shrank the image: %dx%d -> %dx%d",
			once.Cols(), once.Rows(), twice.Cols(), twice.Rows())
	}
}

func TestCropBordersFullContentUnchanged(t *testing.T) {
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 90, 140, gocv.MatTypeCV8UC3)
	defer src.Close()

	cropped := CropBorders(src, DefaultCropKernelSize)
	defer cropped.Close()

	if cropped.Cols() != src.Cols() || cropped.Rows() != src.Rows() {
		t.Errorf("fully non-zero image must not shrink: got %dx%d, want %dx%d",
			cropped.Cols(), cropped.Rows(), src.Cols(), src.Rows())
	}
}

func TestCropBordersZeroKernelUsesDefault(t *testing.T) {
	src := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC3)
	defer src.Close()
	gocv.Rectangle(&src, image.Rect(20, 20, 80, 80), white, -1)

	cropped := CropBorders(src, 0)
	defer cropped.Close()

	if cropped.Empty() {
		t.Fatal("crop with zero kernel size returned an empty image")
	}
}
