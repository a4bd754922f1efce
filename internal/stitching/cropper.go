package stitching

import (
	"image"

	"gocv.io/x/gocv"
)

// DefaultCropKernelSize is the side of the square structuring element used
// by the morphological closing step.
const DefaultCropKernelSize = 5

// CropBorders trims the irregular black padding the warp leaves around a
// stitched panorama. It thresholds the gray image with Otsu's method,
// closes small gaps in the foreground mask so thin seams do not fragment
// the content region, and returns the sub-image under the bounding
// rectangle of the largest external contour.
//
// If no contour is found the input is returned unchanged (as a clone).
// The heuristic can under-crop when content touches the frame edge and
// over-crop around interior dark regions; both are accepted. The caller
// owns the returned matrix.
func CropBorders(pano gocv.Mat, kernelSize int) gocv.Mat {
	if kernelSize <= 0 {
		kernelSize = DefaultCropKernelSize
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(pano, &gray, gocv.ColorBGRToGray)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(gray, &thresh, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(kernelSize, kernelSize))
	defer kernel.Close()

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(thresh, &closed, gocv.MorphClose, kernel)

	contours := gocv.FindContours(closed, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return pano.Clone()
	}

	largest := 0
	largestArea := gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > largestArea {
			largest = i
			largestArea = area
		}
	}

	rect := gocv.BoundingRect(contours.At(largest))
	region := pano.Region(rect)
	defer region.Close()

	return region.Clone()
}
