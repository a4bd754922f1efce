package stitching

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestOpenCVStitcherTooFewImages(t *testing.T) {
	s := NewOpenCVStitcher(false)

	for _, images := range [][]gocv.Mat{nil, {}} {
		result := s.Stitch(images)
		if result.OK() {
			result.Pano.Close()
			t.Fatal("stitching without images must not succeed")
		}
		if result.Status != StatusNeedMoreImages {
			t.Errorf("status: got %d (%s), want %d", int(result.Status), result.Status, int(StatusNeedMoreImages))
		}
	}
}

func TestOpenCVStitcherFeaturelessImages(t *testing.T) {
	// Uniform frames carry no keypoints, so the pipeline cannot match or
	// register them and must report a failure code instead of a panorama.
	a := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), 240, 320, gocv.MatTypeCV8UC3)
	defer a.Close()
	b := a.Clone()
	defer b.Close()

	s := NewOpenCVStitcher(false)
	result := s.Stitch([]gocv.Mat{a, b})
	if result.OK() {
		result.Pano.Close()
		t.Fatal("featureless frames must not stitch")
	}
	if result.Status != StatusNeedMoreImages && result.Status != StatusHomographyEstFail {
		t.Errorf("unexpected failure status %d (%s)", int(result.Status), result.Status)
	}
}

func TestStitchStatusString(t *testing.T) {
	tests := []struct {
		status StitchStatus
		want   string
	}{
		{StatusOK, "ok"},
		{StatusNeedMoreImages, "need more images"},
		{StatusHomographyEstFail, "homography estimation failed"},
		{StatusCameraParamsAdjustFail, "camera parameter adjustment failed"},
		{StitchStatus(42), "unknown status 42"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("StitchStatus(%d).String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}
