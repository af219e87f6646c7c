// Package vision implements the motion-classification pipeline:
// adaptive background subtraction, morphological noise suppression
// and contour-area classification of the resulting foreground mask.
package vision

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// ErrDimensionMismatch is returned when a frame does not match the
// dimensions the background model was trained on. The model must be
// Reset rather than silently resized.
var ErrDimensionMismatch = errors.New("frame dimensions do not match background model")

// BackgroundModel maintains an adaptive MOG2 mixture model of the
// static scene. Every Apply call both scores the frame against the
// model and feeds it back in, so gradual lighting drift is absorbed.
// Not safe for concurrent use.
type BackgroundModel struct {
	history      int
	varThreshold float64

	subtractor gocv.BackgroundSubtractorMOG2
	gray       gocv.Mat
	blurred    gocv.Mat

	cols int
	rows int
}

// NewBackgroundModel creates a model with the given MOG2 parameters.
// Shadow detection is disabled; shadows would otherwise show up as
// foreground regions.
func NewBackgroundModel(history int, varThreshold float64) *BackgroundModel {
	return &BackgroundModel{
		history:      history,
		varThreshold: varThreshold,
		subtractor:   gocv.NewBackgroundSubtractorMOG2WithParams(history, varThreshold, false),
		gray:         gocv.NewMat(),
		blurred:      gocv.NewMat(),
	}
}

// Apply classifies each pixel of the frame as foreground or background
// and updates the model with the new observation. The returned binary
// mask is owned by the caller.
func (m *BackgroundModel) Apply(frame gocv.Mat) (gocv.Mat, error) {
	if frame.Empty() {
		return gocv.NewMat(), errors.New("empty frame")
	}

	if m.cols == 0 && m.rows == 0 {
		m.cols = frame.Cols()
		m.rows = frame.Rows()
	} else if frame.Cols() != m.cols || frame.Rows() != m.rows {
		return gocv.NewMat(), ErrDimensionMismatch
	}

	// Grayscale plus a heavy blur so sensor noise does not register
	// as per-pixel deviation from the learned background.
	if frame.Channels() == 1 {
		frame.CopyTo(&m.gray)
	} else {
		gocv.CvtColor(frame, &m.gray, gocv.ColorBGRToGray)
	}
	gocv.GaussianBlur(m.gray, &m.blurred, image.Pt(21, 21), 0, 0, gocv.BorderDefault)

	mask := gocv.NewMat()
	if err := m.subtractor.Apply(m.blurred, &mask); err != nil {
		mask.Close()
		return gocv.NewMat(), err
	}
	return mask, nil
}

// Reset discards the learned background entirely. Used after a
// dimension mismatch; there is no persisted state to restore.
func (m *BackgroundModel) Reset() {
	m.subtractor.Close()
	m.subtractor = gocv.NewBackgroundSubtractorMOG2WithParams(m.history, m.varThreshold, false)
	m.cols = 0
	m.rows = 0
}

// Close releases the native resources held by the model.
func (m *BackgroundModel) Close() {
	m.subtractor.Close()
	m.gray.Close()
	m.blurred.Close()
}
