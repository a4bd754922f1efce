package stitching

import (
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

func writeTestImage(t *testing.T, path string) {
	t.Helper()
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(120, 140, 160, 0), 64, 96, gocv.MatTypeCV8UC3)
	defer img.Close()
	if ok := gocv.IMWrite(path, img); !ok {
		t.Fatalf("failed to write test image %s", path)
	}
}

func TestLoadImagesSkipsUndecodable(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.jpg")
	writeTestImage(t, valid)

	corrupt := filepath.Join(dir, "corrupt.jpg")
	if err := os.WriteFile(corrupt, []byte("this is not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	missing := filepath.Join(dir, "missing.png")

	images, skipped := LoadImages([]string{valid, corrupt, missing})
	defer CloseAll(images)

	if len(images) != 1 {
		t.Fatalf("decoded images: got %d, want 1", len(images))
	}
	if skipped != 2 {
		t.Errorf("skipped: got %d, want 2", skipped)
	}
	if images[0].Empty() {
		t.Error("decoded image is empty")
	}
}

func TestLoadImagesAllValid(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 3)
	for i, name := range []string{"a.jpg", "b.png", "c.bmp"} {
		paths[i] = filepath.Join(dir, name)
		writeTestImage(t, paths[i])
	}

	images, skipped := LoadImages(paths)
	defer CloseAll(images)

	if len(images) != 3 {
		t.Fatalf("decoded images: got %d, want 3", len(images))
	}
	if skipped != 0 {
		t.Errorf("skipped: got %d, want 0", skipped)
	}
}

func TestLoadImagesEmptyInput(t *testing.T) {
	images, skipped := LoadImages(nil)
	defer CloseAll(images)

	if len(images) != 0 || skipped != 0 {
		t.Errorf("got %d images and %d skipped, want 0 and 0", len(images), skipped)
	}
}

func TestEncodeJPEGRoundTrip(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 128, 255, 0), 50, 80, gocv.MatTypeCV8UC3)
	defer img.Close()

	data, err := EncodeJPEG(img, DefaultJPEGQuality)
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("EncodeJPEG returned no data")
	}

	decoded, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		t.Fatalf("decoding encoded JPEG: %v", err)
	}
	defer decoded.Close()

	if decoded.Cols() != img.Cols() || decoded.Rows() != img.Rows() {
		t.Errorf("round trip changed dimensions: got %dx%d, want %dx%d",
			decoded.Cols(), decoded.Rows(), img.Cols(), img.Rows())
	}
}
