package stitching

/*
#cgo !windows pkg-config: opencv4
#cgo CXXFLAGS: --std=c++11
#include <stdlib.h>
#include "stitcher.h"
*/
import "C"

import (
	"fmt"
	"unsafe"

	"gocv.io/x/gocv"
)

// StitchStatus mirrors the cv::Stitcher::Status enumeration. The numeric
// values are part of the collaborator contract and are surfaced verbatim
// in error messages.
type StitchStatus int

const (
	StatusOK StitchStatus = iota
	StatusNeedMoreImages
	StatusHomographyEstFail
	StatusCameraParamsAdjustFail
)

func (s StitchStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNeedMoreImages:
		return "need more images"
	case StatusHomographyEstFail:
		return "homography estimation failed"
	case StatusCameraParamsAdjustFail:
		return "camera parameter adjustment failed"
	default:
		return fmt.Sprintf("unknown status %d", int(s))
	}
}

// StitchResult is a tagged outcome: Pano is only valid when Status is
// StatusOK, and ownership of it passes to the caller.
type StitchResult struct {
	Pano   gocv.Mat
	Status StitchStatus
}

func (r StitchResult) OK() bool {
	return r.Status == StatusOK
}

// Stitcher composes two or more overlapping frames into a single panorama.
// Implementations receive the frames in submission order and must not
// retain them after returning.
type Stitcher interface {
	Stitch(images []gocv.Mat) StitchResult
}

// OpenCVStitcher runs OpenCV's high-level stitching pipeline (feature
// detection, matching, homography estimation, seam blending). gocv does
// not bind cv::Stitcher, so the call crosses into stitcher.cpp directly,
// handing over the underlying cv::Mat pointers via Mat.Ptr.
type OpenCVStitcher struct {
	scans bool
}

// NewOpenCVStitcher returns a stitcher in panorama mode, or in scans mode
// for flat originals such as documents and whiteboards.
func NewOpenCVStitcher(scans bool) *OpenCVStitcher {
	return &OpenCVStitcher{scans: scans}
}

func (s *OpenCVStitcher) Stitch(images []gocv.Mat) StitchResult {
	if len(images) < 2 {
		return StitchResult{Status: StatusNeedMoreImages}
	}

	ptrs := make([]C.StitchInputMat, len(images))
	for i := range images {
		ptrs[i] = C.StitchInputMat(unsafe.Pointer(images[i].Ptr()))
	}

	mode := C.int(0)
	if s.scans {
		mode = 1
	}

	pano := gocv.NewMat()
	code := C.Stitcher_Compose(&ptrs[0], C.int(len(ptrs)), mode, C.StitchInputMat(unsafe.Pointer(pano.Ptr())))
	if status := StitchStatus(int(code)); status != StatusOK {
		pano.Close()
		return StitchResult{Status: status}
	}

	return StitchResult{Pano: pano, Status: StatusOK}
}
