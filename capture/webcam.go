package capture

import (
	"fmt"
	"strconv"
	"time"

	"gocv.io/x/gocv"
)

// WebcamSource reads frames from a local camera device via gocv.
// It is not safe for concurrent use; callers serialize access.
type WebcamSource struct {
	webcam *gocv.VideoCapture
	buf    gocv.Mat
}

// OpenWebcam opens the given camera device. The device is either a
// path like "/dev/video0" or a numeric index like "0". Failure here
// is fatal for the process; there is nothing to watch without a camera.
func OpenWebcam(device string) (*WebcamSource, error) {
	var webcam *gocv.VideoCapture
	var err error

	if id, convErr := strconv.Atoi(device); convErr == nil {
		webcam, err = gocv.OpenVideoCapture(id)
	} else {
		webcam, err = gocv.OpenVideoCapture(device)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open camera device %q: %w", device, err)
	}

	return &WebcamSource{
		webcam: webcam,
		buf:    gocv.NewMat(),
	}, nil
}

// NextFrame reads one frame from the device. Read failures and empty
// frames are reported as ErrUnavailable; both are transient on cheap
// webcams.
func (s *WebcamSource) NextFrame() (*Frame, error) {
	if ok := s.webcam.Read(&s.buf); !ok {
		return nil, ErrUnavailable
	}
	if s.buf.Empty() {
		return nil, ErrUnavailable
	}

	return &Frame{
		Mat:        s.buf.Clone(),
		CapturedAt: time.Now(),
	}, nil
}

// Close releases the device and the read buffer.
func (s *WebcamSource) Close() error {
	s.buf.Close()
	return s.webcam.Close()
}
