package vision

import (
	"gocv.io/x/gocv"

	"github.com/framewatch/framewatch/capture"
)

// Verdict is the outcome of analyzing one frame.
type Verdict struct {
	// Present is true if at least one foreground region reached the
	// configured minimum area.
	Present bool
	// LargestArea is the area of the largest foreground region seen,
	// qualifying or not. Zero for an empty mask.
	LargestArea float64
	// Frame is the frame that produced the verdict. The pipeline does
	// not take ownership of it.
	Frame *capture.Frame
}

// Classify extracts the external contours of the cleaned mask and
// reports whether any of them covers at least minArea pixels. The
// threshold is inclusive: a region of exactly minArea counts as
// motion. An all-black mask yields no contours and a negative result.
func Classify(mask gocv.Mat, minArea float64) (present bool, largestArea float64) {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > largestArea {
			largestArea = area
		}
		if area >= minArea {
			present = true
		}
	}
	return present, largestArea
}
