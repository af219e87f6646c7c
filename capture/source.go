package capture

import (
	"errors"
	"time"

	"gocv.io/x/gocv"
)

// ErrUnavailable signals that the source could not produce a frame
// this cycle. It is recoverable; callers retry after a short backoff.
var ErrUnavailable = errors.New("frame source unavailable")

// Frame is a single captured image with its capture timestamp. The
// holder owns the underlying Mat and must call Close when done;
// downstream stages derive new data instead of mutating it.
type Frame struct {
	Mat        gocv.Mat
	CapturedAt time.Time
}

// Close releases the native image buffer.
func (f *Frame) Close() {
	if f != nil && !f.Mat.Empty() {
		f.Mat.Close()
	}
}

// Clone returns an independent copy of the frame.
func (f *Frame) Clone() *Frame {
	return &Frame{Mat: f.Mat.Clone(), CapturedAt: f.CapturedAt}
}

// FrameSource produces successive raw frames from a camera.
type FrameSource interface {
	// NextFrame returns the next captured frame, or ErrUnavailable if
	// the device could not produce one right now.
	NextFrame() (*Frame, error)
	// Close releases the underlying device.
	Close() error
}
